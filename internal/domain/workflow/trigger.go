package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit        Trigger = "SUBMIT"
	TriggerRequestQuotes Trigger = "REQUEST_QUOTES"
	TriggerQuotesReady   Trigger = "QUOTES_READY"
	TriggerSelectQuote   Trigger = "SELECT_QUOTE"
	TriggerApprove       Trigger = "APPROVE"
	TriggerReject        Trigger = "REJECT"
	TriggerSendBack      Trigger = "SEND_BACK"
	TriggerBook          Trigger = "BOOK"
	TriggerComplete      Trigger = "COMPLETE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
