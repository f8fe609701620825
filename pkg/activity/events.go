package activity

import (
	"strings"
	"time"
)

// Verbs emitted for translation changes.
const (
	VerbKeyCreated    = "translation.key.created"
	VerbKeyUpdated    = "translation.key.updated"
	VerbKeyDeleted    = "translation.key.deleted"
	VerbKeyRenamed    = "translation.key.renamed"
	VerbKeyRestored   = "translation.key.restored"
	VerbLocaleCreated = "translation.locale.created"
	VerbLocaleRemoved = "translation.locale.removed"
	VerbLocaleSaved   = "translation.locale.saved"
)

// Object types carried by translation events.
const (
	ObjectKey    = "translation.key"
	ObjectLocale = "translation.locale"
)

// TranslationEventInput describes the common fields of translation events.
type TranslationEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Locale     string
	Key        string
	NewKey     string
	OldValue   any
	NewValue   any
	Path       string
	SnapshotID string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildKeyCreatedEvent describes a key added to a locale.
func BuildKeyCreatedEvent(input TranslationEventInput) Event {
	return buildKeyEvent(VerbKeyCreated, input)
}

// BuildKeyUpdatedEvent describes a text or comment change.
func BuildKeyUpdatedEvent(input TranslationEventInput) Event {
	return buildKeyEvent(VerbKeyUpdated, input)
}

// BuildKeyDeletedEvent describes a key tombstoned in a locale.
func BuildKeyDeletedEvent(input TranslationEventInput) Event {
	return buildKeyEvent(VerbKeyDeleted, input)
}

// BuildKeyRenamedEvent describes a key moved to input.NewKey.
func BuildKeyRenamedEvent(input TranslationEventInput) Event {
	return buildKeyEvent(VerbKeyRenamed, input)
}

// BuildKeyRestoredEvent describes a key reverted to its loaded state.
func BuildKeyRestoredEvent(input TranslationEventInput) Event {
	return buildKeyEvent(VerbKeyRestored, input)
}

// BuildLocaleCreatedEvent describes a locale added to a project.
func BuildLocaleCreatedEvent(input TranslationEventInput) Event {
	return buildLocaleEvent(VerbLocaleCreated, input)
}

// BuildLocaleRemovedEvent describes a locale removed or cleared.
func BuildLocaleRemovedEvent(input TranslationEventInput) Event {
	return buildLocaleEvent(VerbLocaleRemoved, input)
}

// BuildLocaleSavedEvent describes a locale written to its resource.
func BuildLocaleSavedEvent(input TranslationEventInput) Event {
	return buildLocaleEvent(VerbLocaleSaved, input)
}

func buildKeyEvent(verb string, input TranslationEventInput) Event {
	locale := strings.TrimSpace(input.Locale)
	key := strings.TrimSpace(input.Key)
	objectID := key
	if locale != "" && key != "" {
		objectID = locale + ":" + key
	}
	metadata := baseMetadata(input)
	if key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = key
	}
	if newKey := strings.TrimSpace(input.NewKey); newKey != "" {
		metadata = ensureMetadata(metadata)
		metadata["new_key"] = newKey
	}
	return newEvent(verb, ObjectKey, objectID, input, metadata)
}

func buildLocaleEvent(verb string, input TranslationEventInput) Event {
	objectID := strings.TrimSpace(input.Locale)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = ObjectLocale
	}
	return newEvent(verb, ObjectLocale, objectID, input, baseMetadata(input))
}

func baseMetadata(input TranslationEventInput) map[string]any {
	metadata := CloneMetadata(input.Metadata)
	if locale := strings.TrimSpace(input.Locale); locale != "" {
		metadata = ensureMetadata(metadata)
		metadata["locale"] = locale
	}
	if path := strings.TrimSpace(input.Path); path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = path
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}
	return metadata
}

func newEvent(verb, objectType, objectID string, input TranslationEventInput, metadata map[string]any) Event {
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
