package tasks

// SlotState is the display state of one phase slot.
type SlotState int

const (
	Pending SlotState = iota
	Active
	Completed
)

func (s SlotState) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "pending"
	}
}

// Slot is the rendered form of one phase indicator.
type Slot struct {
	Phase Phase
	State SlotState
	Icon  string
}

// StepProgress is the three-slot phase indicator plus its status line.
//
// The zero value is the reset state.
type StepProgress struct {
	phase  Phase
	status string
}

// SetPhase completes every phase before n, activates n and leaves the rest pending.
//
// An explicit text replaces the status line; an empty one falls back to n's label.
// Out of range phases are ignored.
func (p *StepProgress) SetPhase(n Phase, text string) {
	if !n.Valid() {
		return
	}
	p.phase = n
	p.status = text
}

// Reset returns every slot to pending with its default icon.
func (p *StepProgress) Reset() {
	*p = StepProgress{}
}

// Phase is the active phase, or [PhaseNone] after a reset.
func (p StepProgress) Phase() Phase {
	return p.phase
}

// Status is the explicit status text, or the active phase's label.
func (p StepProgress) Status() string {
	if p.status != "" {
		return p.status
	}
	return p.phase.Label()
}

// Slots renders the three indicators in fixed order.
func (p StepProgress) Slots() [PhaseCount]Slot {
	var slots [PhaseCount]Slot
	for i := range slots {
		ph := Phase(i + 1)
		slot := Slot{Phase: ph, State: Pending, Icon: ph.Icon()}
		switch {
		case ph < p.phase:
			slot.State = Completed
			slot.Icon = DoneMarker
		case ph == p.phase:
			slot.State = Active
		}
		slots[i] = slot
	}
	return slots
}
