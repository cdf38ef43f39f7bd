package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"juno-research/llm"
	"juno-research/marketdata"
	"juno-research/research"
)

// fakeResearcher returns a canned result or error
type fakeResearcher struct {
	result *research.ResearchResult
	err    error
	gotQ   research.Query
}

func (f *fakeResearcher) Research(ctx context.Context, q research.Query) (*research.ResearchResult, error) {
	f.gotQ = q
	return f.result, f.err
}

// fakeChat returns canned chat responses
type fakeChat struct {
	result  *research.ResearchResult
	err     error
	records []research.ChatRecord
}

func (f *fakeChat) Chat(ctx context.Context, message, sessionID string) (*research.ResearchResult, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if sessionID == "" {
		sessionID = "generated-session"
	}
	return f.result, sessionID, nil
}

func (f *fakeChat) History(ctx context.Context, sessionID string) ([]research.ChatRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.records == nil {
		return []research.ChatRecord{}, nil
	}
	return f.records, nil
}

// fakeMarketData returns a canned snapshot
type fakeMarketData struct {
	snap marketdata.MarketSnapshot
}

func (f *fakeMarketData) GetPrice(ctx context.Context, symbol string) marketdata.MarketSnapshot {
	return f.snap
}

// fakeNarrator streams canned chunks
type fakeNarrator struct {
	chunks []string
	err    error
}

func (f *fakeNarrator) CompleteStream(ctx context.Context, systemPrompt, userPrompt string, callback llm.StreamCallback) error {
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return err
		}
	}
	return nil
}

func sampleResult() *research.ResearchResult {
	return &research.ResearchResult{
		ID:      "res-1",
		Summary: "Analysis for BTC: bullish bias with 18% conviction based on multi-agent research.",
		MarketView: research.MarketView{
			Asset:      "BTC",
			Timeframe:  "1d",
			Bias:       research.BiasBullish,
			Conviction: 18,
		},
	}
}

func newTestServer(researcher Researcher, chat ChatProvider, market research.MarketData, narrator Narrator, llmEnabled bool) http.Handler {
	s := NewServer(researcher, chat, market, narrator, llmEnabled, nil)
	return s.routes()
}

func TestHandleResearch(t *testing.T) {
	researcher := &fakeResearcher{result: sampleResult()}
	handler := newTestServer(researcher, &fakeChat{}, &fakeMarketData{}, nil, false)

	body := bytes.NewBufferString(`{"query":"outlook?","asset":"BTC","timeframe":"4h"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/research", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if researcher.gotQ.Asset != "BTC" || researcher.gotQ.Timeframe != "4h" {
		t.Errorf("query not passed through: %+v", researcher.gotQ)
	}

	var result research.ResearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if result.MarketView.Bias != research.BiasBullish {
		t.Errorf("unexpected bias: %s", result.MarketView.Bias)
	}
}

func TestHandleResearchFailure(t *testing.T) {
	researcher := &fakeResearcher{err: research.ErrAnalysisFailed}
	handler := newTestServer(researcher, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/research", bytes.NewBufferString(`{"query":"x"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Research analysis failed") {
		t.Errorf("expected opaque failure message, got %s", rec.Body.String())
	}
}

func TestHandleResearchBadBody(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/research", bytes.NewBufferString(`{broken`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleChat(t *testing.T) {
	chat := &fakeChat{result: sampleResult()}
	handler := newTestServer(&fakeResearcher{}, chat, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"what about btc?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id in the response")
	}
	if resp.Response == nil || resp.Response.ID != "res-1" {
		t.Errorf("expected the research result, got %+v", resp.Response)
	}
}

func TestHandleChatValidation(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":"  "}`},
		{"missing message", `{}`},
		{"broken json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleChatPersistenceFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("db down")}
	handler := newTestServer(&fakeResearcher{}, chat, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"btc?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandleChatHistoryEmpty(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/unknown-session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestHandleMarket(t *testing.T) {
	market := &fakeMarketData{snap: marketdata.MarketSnapshot{Price: 50000, Change24h: 5}}
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, market, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/market/BTC", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap marketdata.MarketSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if snap.Price != 50000 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestHandleRoot(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Juno Research API") {
		t.Errorf("unexpected banner: %s", rec.Body.String())
	}
}

func TestHandleResearchStreamDisabled(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/research/stream?asset=BTC", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with LLM disabled, got %d", rec.Code)
	}
}

func TestHandleResearchStream(t *testing.T) {
	narrator := &fakeNarrator{chunks: []string{"BTC remains ", "range bound."}}
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, narrator, true)

	req := httptest.NewRequest(http.MethodGet, "/api/research/stream?asset=BTC", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "data: BTC remains ") {
		t.Errorf("missing streamed chunk: %s", body)
	}
	if !strings.Contains(body, "event: done") {
		t.Errorf("missing done event: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestHandleResearchStreamError(t *testing.T) {
	narrator := &fakeNarrator{err: errors.New("upstream 500")}
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, narrator, true)

	req := httptest.NewRequest(http.MethodGet, "/api/research/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("expected error event in stream, got %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(&fakeResearcher{}, &fakeChat{}, &fakeMarketData{}, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
