package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "walletmate/internal/log"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func delivery(t *testing.T, ack *fakeAcknowledger, body []byte) amqp091.Delivery {
	t.Helper()
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestHandleDelivery(t *testing.T) {
	valid, err := NewTransactionChangedMessage(OpCreate, "tx-1").ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantRequeue bool
		wantCalled  bool
	}{
		{name: "processed", body: valid, wantAck: true, wantCalled: true},
		{name: "handler failure requeues", body: valid, handlerErr: errors.New("disk full"), wantRequeue: true, wantCalled: true},
		{name: "malformed json dropped", body: []byte(`{"op":`)},
		{name: "unknown op dropped", body: []byte(`{"op":"rename","transaction_id":"x"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			called := false
			handler := func(ctx context.Context, msg *TransactionChangedMessage) error {
				called = true
				return tt.handlerErr
			}

			handleDelivery(context.Background(), applog.Discard(), delivery(t, ack, tt.body), handler)

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && !ack.nacked {
				t.Error("expected nack")
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestTransactionChangedMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     TransactionChangedMessage
		wantErr bool
	}{
		{"create with id", TransactionChangedMessage{Op: OpCreate, TransactionID: "a"}, false},
		{"delete without id", TransactionChangedMessage{Op: OpDelete}, true},
		{"clear without id", TransactionChangedMessage{Op: OpClear}, false},
		{"empty op", TransactionChangedMessage{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("error %v is not ErrInvalidMessage", err)
			}
		})
	}
}

func TestTransactionChangedMessageFromJSON(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &TransactionChangedMessage{Op: OpUpdate, TransactionID: "tx-9", Timestamp: ts}
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := TransactionChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Op != OpUpdate || got.TransactionID != "tx-9" || !got.Timestamp.Equal(ts) {
		t.Errorf("decoded %+v", got)
	}

	if _, err := TransactionChangedMessageFromJSON([]byte(`not json`)); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestNewTransactionChangedMessageTimestamp(t *testing.T) {
	msg := NewTransactionChangedMessage(OpClear, "")
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Errorf("unexpected timestamp %v", msg.Timestamp)
	}
}
