package repair

// Event kinds emitted during a batch repair.
const (
	EventStart    = "start"
	EventProgress = "progress"
	EventDone     = "done"
)

// Event is one progress token. Status strings are human-readable and not
// part of the machine contract; Report and Diagnosis are set only on "done"
// events.
type Event struct {
	Kind      string     `json:"kind"`
	Index     int        `json:"index"`
	ObjectID  string     `json:"objectId"`
	Total     int        `json:"total"`
	Status    string     `json:"status"`
	Report    *Report    `json:"report,omitempty"`
	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`
}

// Progress receives status tokens from the repair driver. The sink is
// best-effort and write-only: a nil Progress is valid and the driver behaves
// identically without one.
type Progress func(Event)

// emit forwards an event to the sink, tolerating a nil sink.
func (p Progress) emit(e Event) {
	if p != nil {
		p(e)
	}
}

// status emits a bare stage-boundary token.
func (p Progress) status(s string) {
	p.emit(Event{Kind: EventProgress, Status: s})
}
