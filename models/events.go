package models

// EventKind names a server-pushed inventory change.
type EventKind string

const (
	EventVMCreated EventKind = "vm:created"
	EventVMUpdated EventKind = "vm:updated"
	EventVMDeleted EventKind = "vm:deleted"
)

// VMEvent is a single message on the push channel. The embedded record is a
// notification payload only: clients must treat it as an invalidation hint,
// never as the source of truth for record content.
type VMEvent struct {
	Kind   EventKind `json:"event"`
	Record VM        `json:"record"`
}
