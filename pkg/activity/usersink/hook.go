package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-lokalize/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts translation events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := Record(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record converts event into an ActivityRecord. It reports false for events
// missing a verb, object type or object id.
func Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return usertypes.ActivityRecord{}, false
	}
	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       activity.CloneMetadata(normalized.Metadata),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	if normalized.ActorID != "" && record.ActorID == uuid.Nil {
		if record.Data == nil {
			record.Data = map[string]any{}
		}
		record.Data["actor"] = normalized.ActorID
	}
	return record, true
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
