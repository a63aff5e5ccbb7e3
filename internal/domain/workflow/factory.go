package workflow

// BuildTravelRequestStateMachine creates a state machine configured for
// the travel-request lifecycle. Approvals that do not exhaust the chain
// stay in PENDING_APPROVAL; only the final approval fires TriggerApprove.
func BuildTravelRequestStateMachine(initialState State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateSubmitted)

	builder.Configure(StateSubmitted).
		Permit(TriggerRequestQuotes, StateQuotationPending)

	builder.Configure(StateQuotationPending).
		Permit(TriggerQuotesReady, StateWaitingSelection)

	builder.Configure(StateWaitingSelection).
		Permit(TriggerSelectQuote, StatePendingApproval)

	builder.Configure(StatePendingApproval).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerSendBack, StateQuotationPending)

	// BOOKED and COMPLETED are reached by fulfillment, not by approval actions
	builder.Configure(StateApproved).
		Permit(TriggerBook, StateBooked)

	builder.Configure(StateBooked).
		Permit(TriggerComplete, StateCompleted)

	// REJECTED and COMPLETED are terminal states - no outgoing transitions

	return builder.Build(initialState)
}
