package intake

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreviewing
	PhaseUploading
	PhaseShowingResults
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreviewing:
		return "previewing"
	case PhaseUploading:
		return "uploading"
	case PhaseShowingResults:
		return "showing-results"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type visibility struct {
	preview    bool
	processing bool
	results    bool
}

// layout is the only place region visibility is decided.
func (p Phase) layout() visibility {
	switch p {
	case PhasePreviewing, PhaseFailed:
		return visibility{preview: true}
	case PhaseUploading:
		return visibility{preview: true, processing: true}
	case PhaseShowingResults:
		return visibility{preview: true, results: true}
	default:
		return visibility{}
	}
}

// AcceptsIntake reports whether a new file would start a fresh pipeline
// rather than supersede one in flight.
func (p Phase) AcceptsIntake() bool {
	return p != PhaseUploading
}
