package channel

import "github.com/MKhiriev/vm-console/models"

// Kind names the type of inventory change an event announces.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event is a single change notification delivered to subscribers. The
// record is a hint only: consumers must refetch through the transport to
// observe actual state, never patch caches from event payloads.
type Event struct {
	Kind   Kind
	Record models.VM
}

// kindOf maps a wire event name onto a subscriber-facing kind. Unknown
// names yield false and the message is dropped.
func kindOf(wire models.EventKind) (Kind, bool) {
	switch wire {
	case models.EventVMCreated:
		return KindCreated, true
	case models.EventVMUpdated:
		return KindUpdated, true
	case models.EventVMDeleted:
		return KindDeleted, true
	}
	return "", false
}
