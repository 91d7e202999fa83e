package amqp

import (
	"encoding/json"
	"time"
)

// ActivityRecordedMessage announces a single newly recorded activity.
// Consumers fetch the full entity from the ledger by ID.
type ActivityRecordedMessage struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewActivityRecordedMessage creates a recorded-activity message.
func NewActivityRecordedMessage(id, date string) *ActivityRecordedMessage {
	return &ActivityRecordedMessage{ID: id, Date: date, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes
func (m *ActivityRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityRecordedMessageFromJSON creates a message from JSON bytes
func ActivityRecordedMessageFromJSON(data []byte) (*ActivityRecordedMessage, error) {
	var msg ActivityRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ImportCompletedMessage announces a finished CSV import with the date span
// it touched, so the export worker knows which weeks to push out.
type ImportCompletedMessage struct {
	Imported  int       `json:"imported"`
	Deleted   int       `json:"deleted"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// NewImportCompletedMessage creates an import-completed message.
func NewImportCompletedMessage(imported, deleted int, from, to string) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		Imported:  imported,
		Deleted:   deleted,
		From:      from,
		To:        to,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportCompletedMessageFromJSON creates a message from JSON bytes
func ImportCompletedMessageFromJSON(data []byte) (*ImportCompletedMessage, error) {
	var msg ImportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
