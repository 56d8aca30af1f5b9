package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const auditFileName = "da_updates.log"

// AuditConsumer appends every da.updated event to <Dir>/da_updates.log.
type AuditConsumer struct {
	URL string
	Dir string
	Log *zap.Logger
}

// Run consumes until ctx is cancelled, reconnecting with backoff when the
// broker goes away.  Messages that cannot be handled are rejected without
// requeue.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			a.Log.Warn("audit consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Log.Warn("audit consumer loop ended, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.Log.Warn("audit consumer qos failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(DAUpdatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(DAUpdatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := a.handleMessage(d.Body); err != nil {
				a.Log.Error("audit message rejected", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AuditConsumer) handleMessage(body []byte) error {
	var ev DAUpdatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ContactNumber == "" {
		return errors.New("event without contact_number")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", a.Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(a.Dir, auditFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatAuditLine(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func formatAuditLine(ev DAUpdatedEvent) string {
	return fmt.Sprintf("[%s] DA updated | event_id=%s | contact=%s | name=%q | region=%q | woreda=%q | status=%s | total=%d | fields=[%s] | by=%s:%s\n",
		ev.UpdatedAt, ev.EventID, ev.ContactNumber, ev.Name, ev.Region, ev.Woreda, ev.Status,
		ev.TotalDataCollected, strings.Join(ev.ChangedFields, ","), ev.ActorKind, ev.ActorIdentifier)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
