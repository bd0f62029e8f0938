package amqp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entrepreedge/internal/core"
)

// TransactionSyncMessage announces a stored transaction that must be exported.
// It carries only the ID; the worker loads the transaction from the store.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id string) *TransactionSyncMessage {
	return &TransactionSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.ID) == "" {
		return nil, fmt.Errorf("transaction sync message without id")
	}
	return &msg, nil
}

// ReportRequestMessage asks the worker to generate and store a report.
type ReportRequestMessage struct {
	Type        core.ReportType `json:"type"`
	RequestedAt time.Time       `json:"requestedAt"`
}

func NewReportRequestMessage(t core.ReportType) *ReportRequestMessage {
	return &ReportRequestMessage{Type: t, RequestedAt: time.Now()}
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidReportType, msg.Type)
	}
	return &msg, nil
}
