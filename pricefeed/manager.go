// Package pricefeed streams live ticker data over websocket and fans it out
// to the realtime broker as price.tick events.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	reconnectDelay = 5 * time.Second
	// If the stream goes quiet for this long the connection is recycled
	staleAfter = 5 * time.Minute
)

// Tick is one live price update
type Tick struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change_pct"`
	At        time.Time `json:"at"`
}

// Sink receives parsed ticks for fan-out
type Sink interface {
	Broadcast(event string, payload interface{})
}

// Manager handles the ticker websocket lifecycle: connect, read, publish,
// reconnect on failure or staleness
type Manager struct {
	baseURL     string
	symbols     []string
	sink        Sink
	lastMsgTime time.Time
}

// NewManager creates a new price feed manager
func NewManager(baseURL string, symbols []string, sink Sink) *Manager {
	return &Manager{
		baseURL:     baseURL,
		symbols:     symbols,
		sink:        sink,
		lastMsgTime: time.Now(),
	}
}

// streamURL builds the combined miniTicker stream URL for all symbols
func (m *Manager) streamURL() string {
	streams := make([]string, 0, len(m.symbols))
	for _, symbol := range m.symbols {
		streams = append(streams, strings.ToLower(symbol)+"usdt@miniTicker")
	}
	return fmt.Sprintf("%s/stream?streams=%s", m.baseURL, strings.Join(streams, "/"))
}

// Run drives the feed until the context is cancelled, reconnecting after
// read failures
func (m *Manager) Run(ctx context.Context) {
	url := m.streamURL()
	log.Printf("📈 Price feed starting for %s", strings.Join(m.symbols, ", "))

	for {
		if err := m.connectAndRead(ctx, url); err != nil {
			if ctx.Err() != nil {
				log.Println("🛑 Price feed stopped")
				return
			}
			log.Printf("⚠️  Price feed disconnected: %v, reconnecting in %s", err, reconnectDelay)
		}

		select {
		case <-ctx.Done():
			log.Println("🛑 Price feed stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (m *Manager) connectAndRead(ctx context.Context, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer conn.Close()

	log.Printf("✅ Price feed connected to %s", m.baseURL)
	m.lastMsgTime = time.Now()

	// Close the socket when the context is cancelled so ReadMessage unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(staleAfter)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		m.lastMsgTime = time.Now()

		tick, err := parseMiniTicker(data)
		if err != nil {
			// Malformed frames are skipped, the stream keeps going
			continue
		}

		if m.sink != nil {
			m.sink.Broadcast("price.tick", tick)
		}
	}
}

// streamMessage is the combined-stream wrapper around one ticker payload
type streamMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// miniTicker is the Binance 24h mini-ticker payload. Numeric fields arrive
// as strings.
type miniTicker struct {
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Open   string `json:"o"`
}

// parseMiniTicker converts a raw combined-stream frame into a Tick
func parseMiniTicker(data []byte) (Tick, error) {
	var wrapper streamMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return Tick{}, fmt.Errorf("invalid stream frame: %w", err)
	}
	if len(wrapper.Data) == 0 {
		return Tick{}, fmt.Errorf("stream frame has no payload")
	}

	var ticker miniTicker
	if err := json.Unmarshal(wrapper.Data, &ticker); err != nil {
		return Tick{}, fmt.Errorf("invalid ticker payload: %w", err)
	}
	if ticker.Symbol == "" {
		return Tick{}, fmt.Errorf("ticker payload missing symbol")
	}

	price, err := strconv.ParseFloat(ticker.Close, 64)
	if err != nil {
		return Tick{}, fmt.Errorf("invalid close price %q: %w", ticker.Close, err)
	}
	open, err := strconv.ParseFloat(ticker.Open, 64)
	if err != nil {
		return Tick{}, fmt.Errorf("invalid open price %q: %w", ticker.Open, err)
	}

	var changePct float64
	if open != 0 {
		changePct = (price - open) / open * 100
	}

	return Tick{
		Symbol:    normalizeSymbol(ticker.Symbol),
		Price:     price,
		ChangePct: changePct,
		At:        time.Now().UTC(),
	}, nil
}

// normalizeSymbol strips the quote currency from an exchange pair symbol
func normalizeSymbol(pair string) string {
	return strings.TrimSuffix(strings.ToUpper(pair), "USDT")
}
