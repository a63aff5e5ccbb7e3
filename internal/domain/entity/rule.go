package entity

// PolicyRule is a scoped travel-policy constraint. Rules are immutable
// once handed to an evaluation; administration edits them elsewhere.
type PolicyRule struct {
	ID       int64  `json:"id"`
	Entity   string `json:"entity"`   // owning entity id, or EntityAll
	Category string `json:"category"` // CategoryFlightClass or CategoryHotelLimit

	// Job-grade window, inclusive. Nil means unbounded on that side.
	MinJobGrade *int `json:"min_job_grade,omitempty"`
	MaxJobGrade *int `json:"max_job_grade,omitempty"`

	TravelType string `json:"travel_type"` // TravelTypeAll or a specific type

	// MinDurationHours applies to flight-class rules only.
	MinDurationHours *float64 `json:"min_duration_hours,omitempty"`

	// AllowedClass is the permitted cabin for flight-class rules.
	AllowedClass string `json:"allowed_class,omitempty"`

	// AmountLimit is the nightly price ceiling for hotel-limit rules.
	AmountLimit float64 `json:"amount_limit,omitempty"`
}

// DOARule maps a cost band to an ordered approver-role chain.
// MaxCost = -1 denotes an unbounded upper end. Lower Priority wins when
// several rules match.
type DOARule struct {
	ID       int64    `json:"id"`
	Entity   string   `json:"entity"`
	MinCost  float64  `json:"min_cost"`
	MaxCost  float64  `json:"max_cost"`
	Priority int      `json:"priority"`
	Chain    []string `json:"chain"`
}
