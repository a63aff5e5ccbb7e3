package workflow

// State represents a workflow state in the travel-request lifecycle
type State string

const (
	StateDraft            State = "DRAFT"
	StateSubmitted        State = "SUBMITTED"
	StateQuotationPending State = "QUOTATION_PENDING"
	StateWaitingSelection State = "WAITING_SELECTION"
	StatePendingApproval  State = "PENDING_APPROVAL"
	StateApproved         State = "APPROVED"
	StateRejected         State = "REJECTED"
	StateBooked           State = "BOOKED"
	StateCompleted        State = "COMPLETED"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateSubmitted:        true,
	StateQuotationPending: true,
	StateWaitingSelection: true,
	StatePendingApproval:  true,
	StateApproved:         true,
	StateRejected:         true,
	StateBooked:           true,
	StateCompleted:        true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
}

// quotationPhaseStates are the states in which the SLA clock is still
// running against the quotation deadline.
var quotationPhaseStates = map[State]bool{
	StateSubmitted:        true,
	StateQuotationPending: true,
}

// IsTerminal returns true if the state allows no further transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// InQuotationPhase returns true while the request is still waiting on quotes
func (s State) InQuotationPhase() bool {
	return quotationPhaseStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}
