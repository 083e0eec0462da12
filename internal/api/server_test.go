package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/option_screener/internal/config"
	"github.com/eddiefleurent/option_screener/internal/models"
	"github.com/eddiefleurent/option_screener/internal/screener"
)

const straddlePortfolioJSON = `{
	"portfolio_id": "PF-001",
	"portfolio_currency": "USD",
	"investment_horizon_years": 5,
	"risk_profile": "Moderate",
	"product_knowledge": ["Equity", "Option"],
	"positions": [
		{
			"type": "Option",
			"symbol": "SPY",
			"option_type": "Call",
			"strike": 400.0,
			"expiry": "2026-12-18",
			"position": "Long",
			"contracts": 1,
			"price_at_purchase": 1.0,
			"current_price": 1.5,
			"market_value": 150.0,
			"isin": "OPT-SPY-C-400",
			"instrument_currency": "USD"
		},
		{
			"type": "Option",
			"symbol": "SPY",
			"option_type": "Put",
			"strike": 400.0,
			"expiry": "2026-12-18",
			"position": "Long",
			"contracts": 1,
			"price_at_purchase": 1.0,
			"current_price": 1.5,
			"market_value": 150.0,
			"isin": "OPT-SPY-P-400",
			"instrument_currency": "USD"
		}
	]
}`

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())
	for _, m := range mutate {
		m(cfg)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := screener.New(screener.DefaultConfig(), log.New(io.Discard, "", 0))
	return NewServer(cfg, engine, logger)
}

func doRequest(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleScreen(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "POST", "/api/screen", straddlePortfolioJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	results, err := models.UnmarshalScreenResults(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, results, 1)

	strategy, ok := results[0].(models.OptionStrategy)
	require.True(t, ok, "expected an option strategy result")
	assert.Equal(t, models.StrategyLongStraddle, strategy.StrategyName)
	assert.Equal(t, "SPY", strategy.UnderlyingSymbol)
	assert.Equal(t, 200.0, strategy.NetPremiumPaidReceived)
}

func TestHandleScreen_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "POST", "/api/screen", `{"portfolio_id": `, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "decoding portfolio")
}

func TestHandleScreen_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"portfolio_id": "PF-002",
		"portfolio_currency": "ZZZ",
		"risk_profile": "Moderate",
		"positions": []
	}`
	w := doRequest(s, "POST", "/api/screen", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid portfolio")
}

func TestHandleScreen_UnknownPositionType(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"portfolio_id": "PF-003",
		"portfolio_currency": "USD",
		"risk_profile": "Moderate",
		"positions": [{"type": "Crypto", "symbol": "BTC"}]
	}`
	w := doRequest(s, "POST", "/api/screen", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "unknown position type")
}

func TestHandleScreenBatch(t *testing.T) {
	s := newTestServer(t)

	invalid := `{"portfolio_id": "PF-BAD", "portfolio_currency": "ZZZ", "risk_profile": "Moderate", "positions": []}`
	body := `{"portfolios": [` + straddlePortfolioJSON + `, ` + invalid + `]}`

	w := doRequest(s, "POST", "/api/screen/batch", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			PortfolioID string          `json:"portfolio_id"`
			Results     json.RawMessage `json:"results"`
			Error       string          `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "PF-001", first.PortfolioID)
	assert.Empty(t, first.Error)
	results, err := models.UnmarshalScreenResults(first.Results)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	second := resp.Results[1]
	assert.Equal(t, "PF-BAD", second.PortfolioID)
	assert.Contains(t, second.Error, "invalid portfolio")
}

func TestHandleScreenBatch_Empty(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "POST", "/api/screen/batch", `{"portfolios": []}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScreenBatch_ExceedsLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.HTTP.BatchLimit = 2
	})

	body := `{"portfolios": [` + straddlePortfolioJSON + `, ` + straddlePortfolioJSON + `, ` + straddlePortfolioJSON + `]}`
	w := doRequest(s, "POST", "/api/screen/batch", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "exceeds limit")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Contains(t, health, "timestamp")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Screen once so the strategy counter has a series to export.
	w := doRequest(s, "POST", "/api/screen", straddlePortfolioJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "screener_screen_duration_seconds")
	assert.Contains(t, body, "screener_strategies_total")
	assert.Contains(t, body, "screener_http_requests_total")
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.AuthToken = "sekrit"
	})

	// Health stays open for probes.
	w := doRequest(s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, "POST", "/api/screen", straddlePortfolioJSON, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(s, "POST", "/api/screen", straddlePortfolioJSON,
		map[string]string{"X-Auth-Token": "sekrit"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, "POST", "/api/screen?token=sekrit", straddlePortfolioJSON, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.HTTP.RateLimit = 1
		c.HTTP.RateBurst = 1
	})

	w := doRequest(s, "POST", "/api/screen", straddlePortfolioJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(s, "POST", "/api/screen", straddlePortfolioJSON, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// Health is outside the limited subtree.
	w = doRequest(s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMultipleServersCoexist(t *testing.T) {
	// Each server owns its registry, so metric registration must not collide.
	s1 := newTestServer(t)
	s2 := newTestServer(t)

	w := doRequest(s1, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(s2, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
