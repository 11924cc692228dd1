// Package alert implements the alert lifecycle state machine (spec.md §3.8,
// §4.11): an alert is immutable once created, and every transition emits a
// new record rather than mutating the one before it.
package alert

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/pkg/explain"
	"github.com/korinsic/surveillance-core/pkg/risk"
)

// State is one state of an alert's lifecycle (spec.md §4.11).
type State string

const (
	StateGenerated    State = "GENERATED"
	StateUnderReview  State = "UNDER_REVIEW"
	StateInvestigated State = "INVESTIGATED"
	StateDismissed    State = "DISMISSED"
	StateEscalated    State = "ESCALATED"
	StateSTORFiled    State = "STOR_FILED"
)

// allowedNext enumerates the lifecycle's transition graph (spec.md §4.11:
// "GENERATED → UNDER_REVIEW → INVESTIGATED → (DISMISSED | ESCALATED →
// STOR_FILED)"). Transitions are externally driven; this guard only rejects
// transitions outside that graph.
var allowedNext = map[State][]State{
	StateGenerated:    {StateUnderReview},
	StateUnderReview:  {StateInvestigated},
	StateInvestigated: {StateDismissed, StateEscalated},
	StateEscalated:    {StateSTORFiled},
	StateDismissed:    {},
	StateSTORFiled:    {},
}

// Alert is one emitted alert (spec.md §3.8, §6.1 alerts[]). Involved is left
// as account/desk identifiers supplied by the caller; identity resolution
// across accounts is out of scope for the core.
type Alert struct {
	ID                   string
	Typology             string
	Severity             risk.Severity
	Probability          float64
	TraderID             string
	Instruments          []string
	Involved             []string
	Evidence             map[string]int
	HighRiskNodes        []string
	CriticalNodes        []string
	ESIScore             float64
	ESIBadge             string
	DQSIScore            float64
	DQSIConfidenceIndex  float64
	DQSITrustBucket      string
	RegulatoryFrameworks []string
	Explanation          explain.Explanation
	State                State
}

// Record is one immutable snapshot of an alert at a point in its lifecycle.
// A new Record is produced by every transition; none is ever mutated after
// being returned (spec.md §4.11: "the core only asserts that an alert is
// immutable once created").
type Record struct {
	Alert      Alert
	State      State
	Sequence   int
	PriorState State
}

// New creates the first lifecycle record for an alert, in StateGenerated.
func New(a Alert) Record {
	a.State = StateGenerated
	return Record{Alert: a, State: StateGenerated, Sequence: 0}
}

// Transition produces the next immutable record for to, validating that the
// move is legal from the current record's state. The receiver is never
// modified; a new Record is always returned.
func (r Record) Transition(to State) (Record, error) {
	next := allowedNext[r.State]
	allowed := false
	for _, s := range next {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return Record{}, apperrors.New(apperrors.ErrValidation,
			fmt.Sprintf("alert %q: invalid transition %s -> %s (allowed: %v)", r.Alert.ID, r.State, to, next))
	}

	updated := r.Alert
	updated.State = to
	return Record{
		Alert:      updated,
		State:      to,
		Sequence:   r.Sequence + 1,
		PriorState: r.State,
	}, nil
}

// AllowedNext reports the set of states this record may legally transition
// to next.
func (r Record) AllowedNext() []State {
	return append([]State{}, allowedNext[r.State]...)
}

// Terminal reports whether no further transition is possible.
func (r Record) Terminal() bool {
	return len(allowedNext[r.State]) == 0
}
