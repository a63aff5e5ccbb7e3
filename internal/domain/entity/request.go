package entity

import "time"

// TravelRequest represents a travel request from submission through booking.
// The engine treats it as an in-memory value; persistence is the caller's job.
type TravelRequest struct {
	ID            int64  `json:"id"`
	RequestNo     string `json:"request_no"`
	Status        string `json:"status"`
	RequesterID   string `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	Entity        string `json:"entity"`

	TravelType   string `json:"travel_type"`
	Destination  string `json:"destination"`
	DurationDays int    `json:"duration_days"`
	Travelers    int    `json:"travelers"`

	EstimatedCost float64 `json:"estimated_cost"`
	ActualCost    float64 `json:"actual_cost"`

	// PolicyFlags holds the violations from the last compliance evaluation
	// only; re-evaluation overwrites, never accumulates.
	PolicyFlags           []string `json:"policy_flags"`
	PolicyExceptionReason string   `json:"policy_exception_reason,omitempty"`

	// Cycles is the append-only list of approval cycles. The last element
	// is the active cycle; earlier cycles survive send-back/re-selection
	// for audit purposes.
	Cycles []ApprovalCycle `json:"cycles"`

	SLADeadline *time.Time `json:"sla_deadline,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	// QuotedAt records when the request left the quotation phase, so SLA
	// compliance can be checked retrospectively.
	QuotedAt *time.Time `json:"quoted_at,omitempty"`

	// SentToAgencies is an audit trail of vendor RFQ contacts; the engine
	// records but never evaluates it.
	SentToAgencies []string `json:"sent_to_agencies,omitempty"`

	// Version supports optimistic concurrency control on workflow
	// transitions. Every successful transition increments it.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApprovalCycle is one pass through an approval chain. A new cycle is
// appended when a quotation option is (re-)selected; the chain is
// snapshotted once per cycle and never recomputed mid-flight.
type ApprovalCycle struct {
	Seq          int            `json:"seq"`
	Chain        []string       `json:"chain"`
	ChainSource  string         `json:"chain_source"`
	ChainRuleID  int64          `json:"chain_rule_id,omitempty"`
	CurrentIndex int            `json:"current_index"`
	CurrentRole  string         `json:"current_role"`
	Steps        []ApprovalStep `json:"steps"`
	StartedAt    time.Time      `json:"started_at"`
}

// ApprovalStep is one append-only entry in a cycle's audit log.
type ApprovalStep struct {
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Role         string    `json:"role"`
	Action       string    `json:"action"`
	Comment      string    `json:"comment,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ActiveCycle returns the cycle currently driving the workflow, or nil
// if no quotation option has ever been selected.
func (r *TravelRequest) ActiveCycle() *ApprovalCycle {
	if len(r.Cycles) == 0 {
		return nil
	}
	return &r.Cycles[len(r.Cycles)-1]
}

// RequiredApprovalChain returns the active cycle's chain, or nil.
func (r *TravelRequest) RequiredApprovalChain() []string {
	if c := r.ActiveCycle(); c != nil {
		return c.Chain
	}
	return nil
}

// CurrentApproverRole returns the role whose approval is pending, or the
// RoleCompleted sentinel once the chain is exhausted. Empty when no
// cycle exists yet.
func (r *TravelRequest) CurrentApproverRole() string {
	if c := r.ActiveCycle(); c != nil {
		return c.CurrentRole
	}
	return ""
}

// Exhausted reports whether the cycle's chain has been fully traversed.
func (c *ApprovalCycle) Exhausted() bool {
	return c.CurrentIndex >= len(c.Chain)
}
