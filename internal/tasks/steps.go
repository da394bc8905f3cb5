package tasks

// Phase is one of the three UI-visible progress stages. [PhaseNone] means no phase is active.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseReading
	PhaseAnalyzing
	PhaseWriting
)

// PhaseCount is the number of visible phase slots.
const PhaseCount = 3

// DoneMarker replaces a phase's icon once the phase is completed.
const DoneMarker = "✓"

var (
	phaseIcons  = [PhaseCount]string{"📖", "🔍", "✍️"}
	phaseLabels = [PhaseCount]string{"Cleaning text", "Analyzing", "Writing story"}
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseWriting:
		return "writing"
	default:
		return ""
	}
}

// Valid reports whether p names a visible slot.
func (p Phase) Valid() bool {
	return p >= PhaseReading && p <= PhaseWriting
}

// Icon is the phase's default icon.
func (p Phase) Icon() string {
	if !p.Valid() {
		return ""
	}
	return phaseIcons[p-1]
}

// Label is the status text shown when no step-specific text is known.
func (p Phase) Label() string {
	if !p.Valid() {
		return ""
	}
	return phaseLabels[p-1]
}

type stepInfo struct {
	phase  Phase
	text   string
	cached string
}

// steps partitions server steps 1..7 into phases.
var steps = map[int]stepInfo{
	1: {PhaseReading, "Reading file...", ""},
	2: {PhaseReading, "Cleaning text...", "Loading from cache..."},
	3: {PhaseReading, "Sampling text...", ""},
	4: {PhaseAnalyzing, "Running NLP analysis...", ""},
	5: {PhaseAnalyzing, "Analysis complete!", ""},
	6: {PhaseWriting, "Writing story...", ""},
	7: {PhaseWriting, "Done!", ""},
}

// MapStep projects a server step onto its phase and status text.
//
// cached only changes the text, and only for steps that define a cached variant.
// Steps outside 1..7 map to [PhaseNone] and an empty text.
func MapStep(step int, cached bool) (Phase, string) {
	info, ok := steps[step]
	if !ok {
		return PhaseNone, ""
	}
	if cached && info.cached != "" {
		return info.phase, info.cached
	}
	return info.phase, info.text
}
