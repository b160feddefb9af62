package audit

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/echess/club-api/internal/club"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder subscribes to the audit topic and persists entries. It runs in
// the consumer process so audit writes never sit on the request path.
type Recorder struct {
	subscriber message.Subscriber
	entries    club.AuditRepository
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewRecorder creates an audit recorder.
func NewRecorder(subscriber message.Subscriber, entries club.AuditRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		subscriber: subscriber,
		entries:    entries,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins consuming audit events.
func (r *Recorder) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	msgs, err := r.subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}

	go r.consumeLoop(ctx, msgs)

	return nil
}

func (r *Recorder) consumeLoop(ctx context.Context, msgs <-chan *message.Message) {
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			r.handleMessage(ctx, msg)
		}
	}
}

func (r *Recorder) handleMessage(ctx context.Context, msg *message.Message) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		r.logger.Error("failed to unmarshal audit event", zap.Error(err))
		msg.Nack()

		return
	}

	entry := &club.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      event.Actor,
		Action:     event.Action,
		Resource:   event.Resource,
		ResourceID: event.ResourceID,
		ClientIP:   event.ClientIP,
		CreatedAt:  event.OccurredAt,
	}

	if err := r.entries.Append(ctx, entry); err != nil {
		r.logger.Error("failed to persist audit entry",
			zap.String("action", event.Action),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	msg.Ack()

	r.logger.Debug("audit entry recorded",
		zap.String("action", event.Action),
		zap.String("resource", event.Resource),
	)
}

// Shutdown stops the recorder and waits for in-flight messages to complete.
func (r *Recorder) Shutdown() error {
	if r.cancel != nil {
		r.cancel()
	}

	<-r.done

	return nil
}
