package workspace

// Status is the lifecycle stage of an asynchronous operation.
type Status int

const (
	Idle Status = iota
	Pending
	Resolved
	Rejected
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "idle"
	}
}

// Op tracks one asynchronous operation. Ticket identifies the request
// that is currently authoritative; completions carrying any other ticket
// are stale.
type Op struct {
	Status Status
	Ticket uint64
	Err    error
}

// Pending reports whether the operation is in flight.
func (o Op) Pending() bool { return o.Status == Pending }

// accepts reports whether a completion with ticket may be applied.
func (o Op) accepts(ticket uint64) bool {
	return o.Status == Pending && o.Ticket == ticket
}

// ExportOp tracks an export in one format.
type ExportOp struct {
	Op
	Location string // where the document was saved, once resolved
}
