package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"juno-research/agents"
	"juno-research/api"
	"juno-research/cache"
	"juno-research/config"
	"juno-research/database"
	"juno-research/llm"
	"juno-research/marketdata"
	"juno-research/pricefeed"
	"juno-research/realtime"
	"juno-research/research"
)

// App represents the main application
type App struct {
	config    *config.Config
	db        *database.Database
	redis     *cache.RedisClient
	chatRepo  *database.ChatRepository
	broker    *realtime.Broker
	priceFeed *pricefeed.Manager
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
		db:     nil, // Will be initialized in Start()
		redis:  nil, // Will be initialized in Start()
	}
}

// Start starts the application
func (a *App) Start() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// Initialize schema
	a.chatRepo = database.NewChatRepository(a.db)
	if err := a.chatRepo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Events stay in-process only.")
	} else {
		a.redis = redisClient
	}

	// 3. Realtime Broker
	a.broker = realtime.NewBroker()
	go a.broker.Run()

	// With Redis, research events travel through the shared channel so every
	// instance's SSE clients see them. Without it the broker serves locally.
	var events research.EventPublisher = a.broker
	if a.redis != nil {
		events = cache.NewEventBus(a.redis)
		go a.broker.RunRedisBridge(ctx, a.redis.Subscribe(ctx, cache.EventsChannel))
	}

	// 4. Market data client
	market := marketdata.NewClient(a.config.Market.CoinGeckoBaseURL, a.config.Market.RequestTimeout)

	// 5. LLM client if enabled
	var llmClient *llm.Client
	var completer agents.Completer
	if a.config.LLM.Enabled {
		llmClient = llm.NewClient(a.config.LLM.Endpoint, a.config.LLM.APIKey, a.config.LLM.Model)
		completer = llmClient
		log.Printf("✅ LLM analysis ENABLED (Model: %s)", a.config.LLM.Model)
	} else {
		log.Println("ℹ️  LLM analysis DISABLED, agents use deterministic fallbacks")
	}

	// 6. Research pipeline
	agentList := []research.Agent{
		agents.NewSentimentAgent(completer, market),
		agents.NewTechnicalAgent(completer),
		agents.NewMacroAgent(),
		agents.NewOnChainAgent(),
	}
	advisor := research.NewAdvisor(market, agentList, events)
	chatService := research.NewChatService(advisor, a.chatRepo)

	// 7. API Server
	var narrator api.Narrator
	if llmClient != nil {
		narrator = llmClient
	}
	apiServer := api.NewServer(advisor, chatService, market, narrator, a.config.LLM.Enabled, a.broker)

	go func() {
		if err := apiServer.Start(a.config.ServerPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 8. Live price feed
	if a.config.Feed.Enabled {
		a.priceFeed = pricefeed.NewManager(a.config.Feed.WSBaseURL, a.config.Feed.Symbols, a.broker)
		go a.priceFeed.Run(ctx)
	} else {
		log.Println("ℹ️  Price feed DISABLED")
	}

	// 9. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown(cancel)
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc) error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop all goroutines
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown tasks with timeout
	shutdownComplete := make(chan struct{})
	go func() {
		// Close database connection
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		// Close Redis connection
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
