package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Selection event types.
const (
	EventShortlisted   = "university.shortlisted"
	EventUnshortlisted = "university.unshortlisted"
	EventLocked        = "university.locked"
	EventUnlocked      = "university.unlocked"
)

// EventPublisher sink for selection events. *queue.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// SelectionEvent payload published after a selection change commits.
type SelectionEvent struct {
	Type         string    `json:"type"`
	StudentID    string    `json:"student_id"`
	UniversityID string    `json:"university_id"`
	Category     string    `json:"category,omitempty"`
	Stage        int       `json:"stage"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []byte, []byte) error { return nil }

// publishEvent is best effort: a failed publish is logged and never undoes
// the committed change.
func publishEvent(ctx context.Context, pub EventPublisher, logger *zap.Logger, ev SelectionEvent) {
	ev.OccurredAt = time.Now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal selection event", zap.Error(err))
		return
	}
	if err := pub.Publish(ctx, []byte(ev.StudentID), payload); err != nil {
		logger.Warn("publish selection event failed",
			zap.String("type", ev.Type),
			zap.String("student_id", ev.StudentID),
			zap.Error(err),
		)
	}
}
