package entity

// TravelerAttributes is the rule-matching input supplied by the
// authentication/role collaborator. The engine never mutates it.
type TravelerAttributes struct {
	Entity   string `json:"entity"`
	JobGrade int    `json:"job_grade"`
	Position string `json:"position"`
}

// TripContext describes the trip being evaluated.
type TripContext struct {
	TravelType    string  `json:"travel_type"`
	DurationHours float64 `json:"duration_hours"` // used by flight rules
	DurationDays  int     `json:"duration_days"`  // used by budget checks
	Destination   string  `json:"destination"`    // free text, matched by substring
	Travelers     int     `json:"travelers"`
}
