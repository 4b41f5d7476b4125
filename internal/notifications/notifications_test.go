package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"florist/pkg/cache"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestLifecycleEvent_Message(t *testing.T) {
	clientID := uuid.New()
	serviceID := uuid.New()

	event := NewLifecycleEvent(EventDiscussionResponded, clientID, serviceID, "Décoration mariage", "réponse_admin").
		WithPrice(decimal.NewFromInt(150000))
	if got := event.Message(); !strings.Contains(got, "150000 XAF") {
		t.Fatalf("expected counter-offer amount in message, got %q", got)
	}

	event = NewLifecycleEvent(EventReservationCancelled, clientID, serviceID, "Bouquet", "annulé")
	if got := event.Message(); !strings.Contains(got, "annulée") {
		t.Fatalf("unexpected cancel message %q", got)
	}
	if event.GetPartitionKey() != clientID.String() {
		t.Fatalf("events must be keyed by client id")
	}
}

func TestInbox_DeliverAndList(t *testing.T) {
	inbox := NewInbox(cache.NewMemoryService(), 3, time.Hour)
	ctx := context.Background()
	clientID := uuid.New()
	other := uuid.New()

	types := []EventType{EventDiscussionOpened, EventDiscussionResponded, EventDiscussionAccepted, EventReservationCreated}
	for _, typ := range types {
		event := NewLifecycleEvent(typ, clientID, uuid.New(), "Arche", "")
		if err := inbox.Deliver(ctx, event); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}
	if err := inbox.Deliver(ctx, NewLifecycleEvent(EventReservationCreated, other, uuid.New(), "Bouquet", "réservé")); err != nil {
		t.Fatalf("deliver other: %v", err)
	}

	items, err := inbox.List(ctx, clientID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected inbox capped at 3, got %d", len(items))
	}
	if items[0].Type != EventReservationCreated || items[2].Type != EventDiscussionResponded {
		t.Fatalf("expected newest first, got %s .. %s", items[0].Type, items[2].Type)
	}

	items, err = inbox.List(ctx, clientID, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(items))
	}
}

type recordingInbox struct {
	delivered []*LifecycleEvent
	err       error
}

func (r *recordingInbox) Deliver(ctx context.Context, event *LifecycleEvent) error {
	if r.err != nil {
		return r.err
	}
	r.delivered = append(r.delivered, event)
	return nil
}

func (r *recordingInbox) List(ctx context.Context, clientID uuid.UUID, limit int) ([]Notification, error) {
	return nil, nil
}

func TestDeliverMessage(t *testing.T) {
	inbox := &recordingInbox{}
	event := NewLifecycleEvent(EventReservationCreated, uuid.New(), uuid.New(), "Bouquet", "réservé")
	payload, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := deliverMessage(context.Background(), inbox, payload); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(inbox.delivered) != 1 || inbox.delivered[0].ID != event.ID {
		t.Fatalf("expected event to reach the inbox")
	}

	err = deliverMessage(context.Background(), inbox, []byte("{not json"))
	if err == nil || !isPermanent(err) {
		t.Fatalf("malformed payload must be a permanent error, got %v", err)
	}

	inbox.err = errors.New("redis down")
	err = deliverMessage(context.Background(), inbox, payload)
	if err == nil || isPermanent(err) {
		t.Fatalf("inbox failures must be retryable, got %v", err)
	}
}

type flakyInbox struct {
	recordingInbox
	failures int
	attempts int
}

func (f *flakyInbox) Deliver(ctx context.Context, event *LifecycleEvent) error {
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return errors.New("redis down")
	}
	return f.recordingInbox.Deliver(ctx, event)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func newClaim(t *testing.T, offsets ...int64) *fakeClaim {
	t.Helper()
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(offsets))}
	for _, offset := range offsets {
		payload, err := NewLifecycleEvent(EventDiscussionResponded, uuid.New(), uuid.New(), "Arche", "réponse_admin").ToJSON()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		claim.messages <- &sarama.ConsumerMessage{Offset: offset, Value: payload}
	}
	close(claim.messages)
	return claim
}

func TestConsumeClaim_RetriesTransientFailureBeforeMarking(t *testing.T) {
	inbox := &flakyInbox{failures: 1}
	handler := &consumerGroupHandler{inbox: inbox, backoff: time.Millisecond}
	session := &fakeSession{ctx: context.Background()}

	if err := handler.ConsumeClaim(session, newClaim(t, 10, 11)); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if inbox.attempts != 3 {
		t.Fatalf("expected offset 10 to be redelivered (3 attempts), got %d", inbox.attempts)
	}
	if len(inbox.delivered) != 2 {
		t.Fatalf("expected both events delivered, got %d", len(inbox.delivered))
	}
	if len(session.marked) != 2 || session.marked[0] != 10 || session.marked[1] != 11 {
		t.Fatalf("expected offsets [10 11] marked in order, got %v", session.marked)
	}
}

func TestConsumeClaim_SkipsMalformedPayload(t *testing.T) {
	inbox := &flakyInbox{}
	handler := &consumerGroupHandler{inbox: inbox, backoff: time.Millisecond}
	session := &fakeSession{ctx: context.Background()}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 4, Value: []byte("{not json")}
	close(claim.messages)

	if err := handler.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(session.marked) != 1 || session.marked[0] != 4 {
		t.Fatalf("malformed payload must be marked and skipped, got %v", session.marked)
	}
}

func TestConsumeClaim_LeavesOffsetWhenSessionEnds(t *testing.T) {
	inbox := &flakyInbox{failures: 1 << 30}
	handler := &consumerGroupHandler{inbox: inbox, backoff: time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	session := &fakeSession{ctx: ctx}

	if err := handler.ConsumeClaim(session, newClaim(t, 10, 11)); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(session.marked) != 0 {
		t.Fatalf("undelivered offsets must not be marked, got %v", session.marked)
	}
	if inbox.attempts < 2 {
		t.Fatalf("expected delivery to be retried, got %d attempts", inbox.attempts)
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	config := DefaultKafkaProducerConfig()
	publisher := NewKafkaPublisherWithProducer(producer, config)

	event := NewLifecycleEvent(EventDiscussionAccepted, uuid.New(), uuid.New(), "Arche", "finalisé")

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "reservation-events" {
			t.Errorf("unexpected topic %q", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != event.ClientID.String() {
			t.Errorf("expected key %s, got %s", event.ClientID, key)
		}
		value, _ := msg.Value.Encode()
		var decoded LifecycleEvent
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded.Type != EventDiscussionAccepted {
			t.Errorf("unexpected event type %s", decoded.Type)
		}
		return nil
	})
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	if err := publisher.Publish(context.Background(), event); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected broker error, got %v", err)
	}

	if err := publisher.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
