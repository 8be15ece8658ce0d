package amqp

import (
	"encoding/json"
	"time"

	"finhealth/internal/core"
)

// AlertPayload is the wire form of a single alert inside a batch.
type AlertPayload struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// AlertBatchMessage carries one full analysis result to downstream consumers.
// Alerts keep their engine ordering (severity rank, then id).
type AlertBatchMessage struct {
	Score       int            `json:"score"`
	Alerts      []AlertPayload `json:"alerts"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// NewAlertBatchMessage builds a batch message from an analysis run
func NewAlertBatchMessage(score int, alerts []core.Alert) *AlertBatchMessage {
	payloads := make([]AlertPayload, 0, len(alerts))
	for _, a := range alerts {
		payloads = append(payloads, AlertPayload{
			ID:       a.ID,
			Severity: string(a.Severity),
			Title:    a.Title,
			Message:  a.Message,
			Priority: a.Priority,
		})
	}
	return &AlertBatchMessage{
		Score:       score,
		Alerts:      payloads,
		GeneratedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertBatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertBatchMessageFromJSON creates a message from JSON bytes
func AlertBatchMessageFromJSON(data []byte) (*AlertBatchMessage, error) {
	var msg AlertBatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
