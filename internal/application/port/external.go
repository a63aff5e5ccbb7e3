package port

import (
	"context"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// Notifier tells approvers and requesters about workflow events.
// Implementations must be safe to skip on failure; notification errors
// never roll back a transition.
type Notifier interface {
	// NotifyPendingApproval tells the holder of role that a request awaits them
	NotifyPendingApproval(ctx context.Context, role string, req *entity.TravelRequest) error

	// NotifyOutcome tells the requester about a terminal or send-back decision
	NotifyOutcome(ctx context.Context, req *entity.TravelRequest, outcome string) error
}

// TextGenerator is the narrow request/response contract with the
// external AI text-generation service used by the travel assistant.
// The engine itself never calls it.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ReceiptReader extracts plain text from an uploaded receipt document
// so the assistant can reason over it.
type ReceiptReader interface {
	ExtractText(ctx context.Context, path string) (string, error)
}
