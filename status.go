package lokalize

import "strings"

// KeyStatus classifies a key by where it is present: in the selected
// locale, in the locale it inherits from, in both or in neither.
type KeyStatus int

const (
	// Everywhere means the key is present locally and upstream.
	Everywhere KeyStatus = iota
	// OnlyHere means the key is present locally but missing upstream.
	OnlyHere
	// OnlyInParent means the key is inherited but not translated locally.
	OnlyInParent
	// AlreadyDeleted means the key is known but present in neither store.
	AlreadyDeleted
)

func (s KeyStatus) String() string {
	switch s {
	case Everywhere:
		return "Everywhere"
	case OnlyHere:
		return "OnlyHere"
	case OnlyInParent:
		return "OnlyInParent"
	case AlreadyDeleted:
		return "AlreadyDeleted"
	default:
		return "Unknown"
	}
}

// ParseKeyStatus converts a status name (case and separator insensitive,
// e.g. "only-in-parent") into a KeyStatus.
func ParseKeyStatus(value string) (KeyStatus, bool) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(value))
	switch normalized {
	case "everywhere":
		return Everywhere, true
	case "onlyhere":
		return OnlyHere, true
	case "onlyinparent":
		return OnlyInParent, true
	case "alreadydeleted", "deleted":
		return AlreadyDeleted, true
	default:
		return 0, false
	}
}

// DetermineStatus maps local and upstream presence onto a KeyStatus.
func DetermineStatus(here, upstream bool) KeyStatus {
	switch {
	case upstream && here:
		return Everywhere
	case upstream:
		return OnlyInParent
	case here:
		return OnlyHere
	default:
		return AlreadyDeleted
	}
}
