package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"finhealth/internal/core"
	"finhealth/internal/variance"
)

func obligationKeyPrefix(obligationID int64) string {
	return fmt.Sprintf("obligation:%d:", obligationID)
}

type occurrenceView struct {
	DueDate     string `json:"due_date"`
	AmountCents int64  `json:"amount_cents"`
}

type occurrencesResponse struct {
	ObligationID int64            `json:"obligation_id"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	Occurrences  []occurrenceView `json:"occurrences"`
	TotalCents   int64            `json:"total_cents"`
	Count        int              `json:"count"`
}

type statisticsView struct {
	Count         int   `json:"count"`
	AverageCents  int64 `json:"average_cents"`
	MinCents      int64 `json:"min_cents"`
	MaxCents      int64 `json:"max_cents"`
	LastBillCents int64 `json:"last_bill_cents"`
}

type statisticsResponse struct {
	ObligationID int64           `json:"obligation_id"`
	Statistics   *statisticsView `json:"statistics"`
}

type billEntryView struct {
	ID              int64   `json:"id"`
	ObligationID    int64   `json:"obligation_id"`
	ActualCents     int64   `json:"actual_cents"`
	EstimatedCents  int64   `json:"estimated_cents"`
	BillDate        string  `json:"bill_date"`
	Paid            bool    `json:"paid"`
	PaidDate        string  `json:"paid_date,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
	VarianceCents   int64   `json:"variance_cents"`
	VariancePercent float64 `json:"variance_percent"`
}

func billEntryToView(e core.BillHistoryEntry) billEntryView {
	v := billEntryView{
		ID:              e.ID,
		ObligationID:    e.ObligationID,
		ActualCents:     e.Actual.Cents,
		EstimatedCents:  e.Estimated.Cents,
		BillDate:        e.BillDate.Format("2006-01-02"),
		Paid:            e.Paid,
		Notes:           e.Notes,
		PaymentMethod:   e.PaymentMethod,
		VarianceCents:   e.Variance,
		VariancePercent: e.VariancePercent,
	}
	if !e.PaidDate.IsEmpty() {
		v.PaidDate = e.PaidDate.Format("2006-01-02")
	}
	return v
}

func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%soccurrences:%s:%s",
		obligationKeyPrefix(id), from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := s.responseCache.Get(key); ok {
		writeJSONBytes(w, http.StatusOK, cached)
		return
	}

	occurrences, err := s.analysis.ObligationOccurrences(r.Context(), id, from, to)
	if err != nil {
		s.writeDomainError(w, r, err, "project occurrences")
		return
	}

	resp := occurrencesResponse{
		ObligationID: id,
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
		Occurrences:  make([]occurrenceView, 0, len(occurrences)),
		TotalCents:   core.TotalAmount(occurrences).Cents,
		Count:        len(occurrences),
	}
	for _, o := range occurrences {
		resp.Occurrences = append(resp.Occurrences, occurrenceView{
			DueDate:     o.DueDate.Format("2006-01-02"),
			AmountCents: o.Amount.Cents,
		})
	}

	s.cacheAndWrite(w, key, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := obligationKeyPrefix(id) + "stats"
	if cached, ok := s.responseCache.Get(key); ok {
		writeJSONBytes(w, http.StatusOK, cached)
		return
	}

	stats, err := s.analysis.Statistics(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err, "load statistics")
		return
	}

	resp := statisticsResponse{ObligationID: id}
	if stats != nil {
		resp.Statistics = &statisticsView{
			Count:         stats.Count,
			AverageCents:  stats.Average.Cents,
			MinCents:      stats.Min.Cents,
			MaxCents:      stats.Max.Cents,
			LastBillCents: stats.LastBillAmount.Cents,
		}
	}

	s.cacheAndWrite(w, key, resp)
}

type recordBillRequest struct {
	Actual        string `json:"actual"`
	Estimated     string `json:"estimated"`
	BillDate      string `json:"bill_date"`
	Paid          bool   `json:"paid"`
	PaidDate      string `json:"paid_date"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) handleRecordBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recordBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actual, err := core.ParseDecimalToCents(req.Actual)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid actual amount")
		return
	}
	estimated, err := core.ParseDecimalToCents(req.Estimated)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid estimated amount")
		return
	}
	billDate, err := parseDate(req.BillDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid bill date")
		return
	}

	opts := variance.RecordOptions{
		Paid:          req.Paid,
		Notes:         sanitizeInput(req.Notes),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}
	if req.PaidDate != "" {
		paidDate, err := parseDate(req.PaidDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid paid date")
			return
		}
		opts.PaidDate = paidDate
	}

	entry, err := s.analysis.RecordBillInstance(r.Context(), id,
		core.Money{Cents: actual}, core.Money{Cents: estimated}, billDate, opts)
	if err != nil {
		s.writeDomainError(w, r, err, "record bill instance")
		return
	}

	s.invalidateAnalysis(id)
	writeJSON(w, http.StatusCreated, billEntryToView(entry))
}

type amendBillRequest struct {
	Actual    string `json:"actual"`
	Estimated string `json:"estimated"`
	Paid      bool   `json:"paid"`
	PaidDate  string `json:"paid_date"`
}

func (s *Server) handleAmendBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req amendBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actual, err := core.ParseDecimalToCents(req.Actual)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid actual amount")
		return
	}
	estimated, err := core.ParseDecimalToCents(req.Estimated)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid estimated amount")
		return
	}

	var paidDate core.Date
	if req.PaidDate != "" {
		paidDate, err = parseDate(req.PaidDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid paid date")
			return
		}
	}

	entry, err := s.analysis.AmendBillInstance(r.Context(), id,
		core.Money{Cents: actual}, core.Money{Cents: estimated}, req.Paid, paidDate)
	if err != nil {
		s.writeDomainError(w, r, err, "amend bill instance")
		return
	}

	s.invalidateAnalysis(entry.ObligationID)
	writeJSON(w, http.StatusOK, billEntryToView(entry))
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// writeDomainError maps domain errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, core.ErrObligationNotFound):
		writeError(w, http.StatusNotFound, "obligation not found")
	case errors.Is(err, core.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "bill entry not found")
	case errors.Is(err, core.ErrUnknownCadence):
		writeError(w, http.StatusUnprocessableEntity, "unknown cadence")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
