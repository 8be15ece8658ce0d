package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	cacheKeyScore  = "analysis:score"
	cacheKeyAlerts = "analysis:alerts"
)

type scoreFactorView struct {
	Name      string  `json:"name"`
	Deduction int     `json:"deduction"`
	Ratio     float64 `json:"ratio"`
}

type healthScoreResponse struct {
	Score       int               `json:"score"`
	Factors     []scoreFactorView `json:"factors"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type alertView struct {
	ID          string    `json:"id"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Priority    int       `json:"priority"`
	GeneratedAt time.Time `json:"generated_at"`
}

type alertsResponse struct {
	Alerts []alertView `json:"alerts"`
	Count  int         `json:"count"`
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.responseCache.Get(cacheKeyScore); ok {
		writeJSONBytes(w, http.StatusOK, cached)
		return
	}

	result, err := s.analysis.RunAnalysis(r.Context(), time.Now().UTC())
	if err != nil {
		slog.ErrorContext(r.Context(), "Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := healthScoreResponse{
		Score:       result.Score.Score,
		Factors:     make([]scoreFactorView, 0, len(result.Score.Factors)),
		GeneratedAt: result.GeneratedAt,
	}
	for _, f := range result.Score.Factors {
		resp.Factors = append(resp.Factors, scoreFactorView(f))
	}

	s.cacheAndWrite(w, cacheKeyScore, resp)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.responseCache.Get(cacheKeyAlerts); ok {
		writeJSONBytes(w, http.StatusOK, cached)
		return
	}

	result, err := s.analysis.RunAnalysis(r.Context(), time.Now().UTC())
	if err != nil {
		slog.ErrorContext(r.Context(), "Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := alertsResponse{Alerts: make([]alertView, 0, len(result.Alerts))}
	for _, a := range result.Alerts {
		resp.Alerts = append(resp.Alerts, alertView{
			ID:          a.ID,
			Severity:    string(a.Severity),
			Title:       a.Title,
			Message:     a.Message,
			Priority:    a.Priority,
			GeneratedAt: a.GeneratedAt,
		})
	}
	resp.Count = len(resp.Alerts)

	s.cacheAndWrite(w, cacheKeyAlerts, resp)
}

// cacheAndWrite renders v once, stores the body and sends it.
func (s *Server) cacheAndWrite(w http.ResponseWriter, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal response", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.responseCache.Set(key, body)
	writeJSONBytes(w, http.StatusOK, body)
}

// invalidateAnalysis drops the cached analysis responses and every cached
// view of one obligation after a write.
func (s *Server) invalidateAnalysis(obligationID int64) {
	s.responseCache.Delete(cacheKeyScore)
	s.responseCache.Delete(cacheKeyAlerts)
	s.responseCache.DeletePrefix(obligationKeyPrefix(obligationID))
}
