package entity

// Status constants for TravelRequest
const (
	StatusDraft            = "DRAFT"
	StatusSubmitted        = "SUBMITTED"
	StatusQuotationPending = "QUOTATION_PENDING"
	StatusWaitingSelection = "WAITING_SELECTION"
	StatusPendingApproval  = "PENDING_APPROVAL"
	StatusApproved         = "APPROVED"
	StatusRejected         = "REJECTED"
	StatusBooked           = "BOOKED"
	StatusCompleted        = "COMPLETED"
)

// Travel type constants
const (
	TravelTypeDomestic      = "DOMESTIC"
	TravelTypeInternational = "INTERNATIONAL"

	// TravelTypeAll marks a policy rule that applies regardless of travel type
	TravelTypeAll = "ALL"
)

// Cabin class names, in ascending rank order. These are shown to end
// users verbatim in violation messages.
const (
	CabinEconomy        = "Economy"
	CabinPremiumEconomy = "Premium Economy"
	CabinBusiness       = "Business"
	CabinFirst          = "First"
)

// Policy rule categories
const (
	CategoryFlightClass = "FLIGHT_CLASS"
	CategoryHotelLimit  = "HOTEL_LIMIT"
)

// EntityAll marks a rule that applies to every owning entity
const EntityAll = "ALL"

// Approval step action constants
const (
	ActionApproved = "APPROVED"
	ActionRejected = "REJECTED"
	ActionSentBack = "SENT_BACK"
)

// RoleCompleted is the terminal sentinel for CurrentRole once the
// approval chain has been exhausted.
const RoleCompleted = "Completed"

// Approval chain source constants
const (
	ChainSourceMatrix   = "matrix"
	ChainSourceFallback = "fallback"
)
