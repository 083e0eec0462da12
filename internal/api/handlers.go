package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/option_screener/internal/models"
)

// errorResponse is the JSON body for request failures.
type errorResponse struct {
	Error string `json:"error"`
}

// batchRequest carries multiple portfolios for one screening call. Elements
// stay raw so that a malformed portfolio fails alone instead of taking the
// whole batch down.
type batchRequest struct {
	Portfolios []json.RawMessage `json:"portfolios"`
}

// batchItem is the per-portfolio outcome of a batch screening call.
type batchItem struct {
	PortfolioID string                `json:"portfolio_id"`
	Results     []models.ScreenResult `json:"results"`
	Error       string                `json:"error,omitempty"`
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	var portfolio models.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding portfolio: %v", err))
		return
	}
	if err := portfolio.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid portfolio: %v", err))
		return
	}

	start := time.Now()
	results := s.engine.Screen(&portfolio)
	duration := time.Since(start)
	s.metrics.RecordScreen(duration, results)

	s.logger.WithFields(logrus.Fields{
		"portfolio_id": portfolio.PortfolioID,
		"results":      len(results),
		"duration":     duration.String(),
	}).Info("Portfolio screened")

	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleScreenBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding batch request: %v", err))
		return
	}
	if len(req.Portfolios) == 0 {
		s.writeError(w, http.StatusBadRequest, "batch request has no portfolios")
		return
	}
	if len(req.Portfolios) > s.cfg.HTTP.BatchLimit {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("batch of %d portfolios exceeds limit of %d", len(req.Portfolios), s.cfg.HTTP.BatchLimit))
		return
	}

	s.metrics.BatchSize.Observe(float64(len(req.Portfolios)))

	// The engine is stateless per run, so portfolios screen in parallel.
	items := make([]batchItem, len(req.Portfolios))
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.HTTP.Concurrency)
	for i, raw := range req.Portfolios {
		i, raw := i, raw // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			items[i] = s.screenOne(raw)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.WithFields(logrus.Fields{
		"portfolios": len(items),
		"failed":     countFailed(items),
	}).Info("Batch screened")

	s.writeJSON(w, http.StatusOK, map[string][]batchItem{"results": items})
}

// screenOne decodes, validates, and screens a single batch element.
func (s *Server) screenOne(raw json.RawMessage) batchItem {
	item := batchItem{PortfolioID: peekPortfolioID(raw)}

	var portfolio models.Portfolio
	if err := json.Unmarshal(raw, &portfolio); err != nil {
		item.Error = fmt.Sprintf("decoding portfolio: %v", err)
		return item
	}
	item.PortfolioID = portfolio.PortfolioID

	if err := portfolio.Validate(); err != nil {
		item.Error = fmt.Sprintf("invalid portfolio: %v", err)
		return item
	}

	start := time.Now()
	item.Results = s.engine.Screen(&portfolio)
	s.metrics.RecordScreen(time.Since(start), item.Results)
	return item
}

// peekPortfolioID pulls the portfolio id out of an element that may not
// decode fully, so failed batch items still identify themselves.
func peekPortfolioID(raw json.RawMessage) string {
	var envelope struct {
		PortfolioID string `json:"portfolio_id"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.PortfolioID
}

func countFailed(items []batchItem) int {
	n := 0
	for _, item := range items {
		if item.Error != "" {
			n++
		}
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
