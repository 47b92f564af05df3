package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ChangeOp names the store mutation that triggered a change event.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
	OpClear  ChangeOp = "clear"
)

var ErrInvalidMessage = errors.New("invalid change message")

// TransactionChangedMessage tells consumers that the persisted collection
// changed. It carries no transaction data; consumers reload from the shared
// backend.
type TransactionChangedMessage struct {
	Op            ChangeOp  `json:"op"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(op ChangeOp, id string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		Op:            op,
		TransactionID: id,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *TransactionChangedMessage) Validate() error {
	switch m.Op {
	case OpCreate, OpUpdate, OpDelete:
		if m.TransactionID == "" {
			return fmt.Errorf("%w: %s without transaction id", ErrInvalidMessage, m.Op)
		}
	case OpClear:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidMessage, m.Op)
	}
	return nil
}

func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedMessageFromJSON decodes and validates a message body.
func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
