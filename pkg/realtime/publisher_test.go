package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/pkg/logger"
)

type capturingStore struct {
	channel string
	payload string
	err     error
}

func (c *capturingStore) Publish(ctx context.Context, channel string, payload any) error {
	c.channel = channel
	c.payload = payload.(string)
	return c.err
}

func TestNotify_PublishesEnvelope(t *testing.T) {
	store := &capturingStore{}
	pub := NewPublisher(store, "ks:chat:user", nil)
	userID := uuid.New()

	pub.Notify(context.Background(), userID, EventNewMessage, map[string]string{"body": "hello"})

	if store.channel != "ks:chat:user:"+userID.String() {
		t.Fatalf("unexpected channel %s", store.channel)
	}

	var event Event
	if err := json.Unmarshal([]byte(store.payload), &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Type != EventNewMessage {
		t.Fatalf("unexpected event type %s", event.Type)
	}
	var body map[string]string
	if err := json.Unmarshal(event.Payload, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if body["body"] != "hello" {
		t.Fatalf("payload not preserved: %v", body)
	}
}

func TestNotify_PublishErrorDoesNotPanic(t *testing.T) {
	store := &capturingStore{err: errors.New("down")}
	pub := NewPublisher(store, "ks:chat:user", nil)
	pub.Notify(context.Background(), uuid.New(), EventMessagesRead, map[string]int{"count": 2})
}

func TestNotify_PublishErrorIsLoggedWithEventType(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Options{ServiceName: "test", Output: buf})
	store := &capturingStore{err: errors.New("down")}
	pub := NewPublisher(store, "ks:chat:user", log)

	pub.Notify(context.Background(), uuid.New(), EventNewMessage, map[string]string{"body": "hi"})

	if !bytes.Contains(buf.Bytes(), []byte(`"event_type"`)) {
		t.Fatalf("expected event_type in log entry; got %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(EventNewMessage)) {
		t.Fatalf("expected event name in log entry; got %s", buf.String())
	}
}
