package live

import "errors"

// ErrSessionNotActive is returned by send operations before setup has
// completed or after the session has ended.
var ErrSessionNotActive = errors.New("session not active")

// EventKind discriminates what a backend frame carried.
type EventKind int

const (
	EventAudio EventKind = iota
	EventTurnComplete
	EventInterrupted
	EventUsage
)

func (k EventKind) String() string {
	switch k {
	case EventAudio:
		return "audio"
	case EventTurnComplete:
		return "turn_complete"
	case EventInterrupted:
		return "interrupted"
	case EventUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Event is one backend occurrence delivered to the session consumer. A
// single backend frame can expand into several events; see translate.
type Event struct {
	Kind EventKind

	// Data and MimeType are set for EventAudio.
	Data     []byte
	MimeType string

	// TotalTokens is set for EventUsage.
	TotalTokens int32
}
