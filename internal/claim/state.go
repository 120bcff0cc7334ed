package claim

// State is the position of one document in the pipeline.
type State int

// Pipeline states. AGGREGATED is the only terminal state.
const (
	StatePending State = iota
	StateExtracted
	StateExtractionFailed
	StateValidated
	StateDecided
	StateAggregated
)

var stateNames = map[State]string{
	StatePending:          "PENDING",
	StateExtracted:        "EXTRACTED",
	StateExtractionFailed: "EXTRACTION_FAILED",
	StateValidated:        "VALIDATED",
	StateDecided:          "DECIDED",
	StateAggregated:       "AGGREGATED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateAggregated
}

var transitions = map[State][]State{
	StatePending:          {StateExtracted, StateExtractionFailed},
	StateExtracted:        {StateValidated},
	StateValidated:        {StateDecided},
	StateDecided:          {StateAggregated},
	StateExtractionFailed: {StateAggregated},
}

// CanTransition reports whether the pipeline may move from one state to
// the other. There are no retry edges.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
