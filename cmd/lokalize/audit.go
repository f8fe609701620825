package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// auditLog appends activity records as JSON lines to a file.
type auditLog struct {
	path string
	mu   sync.Mutex
}

type auditLine struct {
	ID         string         `json:"id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type"`
	ObjectID   string         `json:"object_id"`
	Channel    string         `json:"channel,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func (l *auditLog) Log(_ context.Context, record usertypes.ActivityRecord) error {
	line := auditLine{
		ID:         uuid.NewString(),
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		Data:       record.Data,
		OccurredAt: record.OccurredAt.UTC(),
	}
	if record.ActorID != uuid.Nil {
		line.ActorID = record.ActorID.String()
	}
	payload, err := json.Marshal(line)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(payload, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
