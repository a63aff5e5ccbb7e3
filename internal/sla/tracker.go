// Package sla computes quotation deadlines and display statuses for
// travel requests. Everything here is derived from stored timestamps
// and wall-clock time; it is safe to recompute on every read.
package sla

import (
	"fmt"
	"time"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"github.com/nattapongw/travel-portal/internal/domain/workflow"
)

// Quotation deadlines by travel type.
const (
	deadlineHoursDomestic      = 4
	deadlineHoursInternational = 24

	// criticalWindow is how close to the deadline a request turns critical
	criticalWindow = 2 * time.Hour
)

// DisplayState classifies a request's SLA position for rendering.
type DisplayState string

const (
	StateOnTrack  DisplayState = "ON_TRACK"
	StateCritical DisplayState = "CRITICAL"
	StateBreached DisplayState = "BREACHED"
	StateMet      DisplayState = "MET"
	StateMissed   DisplayState = "MISSED"
)

// Status is the SLA display status handed to the UI collaborator. Label
// is a plain-language string shown to end users as-is.
type Status struct {
	State DisplayState `json:"state"`
	Label string       `json:"label"`
}

// Deadline computes the quotation deadline from the submission time.
func Deadline(submittedAt time.Time, travelType string) time.Time {
	hours := deadlineHoursDomestic
	if travelType == entity.TravelTypeInternational {
		hours = deadlineHoursInternational
	}
	return submittedAt.Add(time.Duration(hours) * time.Hour)
}

// Evaluate derives the display status at the given instant. Requests
// that have left the quotation phase are judged retrospectively against
// the recorded quotedAt timestamp; requests still in the quotation
// phase are judged against the wall clock.
func Evaluate(deadline time.Time, requestStatus string, quotedAt *time.Time, now time.Time) Status {
	if !workflow.State(requestStatus).InQuotationPhase() {
		return retrospective(deadline, quotedAt)
	}

	diff := deadline.Sub(now)
	switch {
	case diff <= 0:
		return Status{State: StateBreached, Label: fmt.Sprintf("SLA breached: overdue by %s", formatHM(-diff))}
	case diff < criticalWindow:
		return Status{State: StateCritical, Label: fmt.Sprintf("Due soon: %s remaining", formatHM(diff))}
	default:
		return Status{State: StateOnTrack, Label: fmt.Sprintf("On track: %s remaining", formatHM(diff))}
	}
}

// retrospective reports whether the deadline was honored before the
// request moved on. Records predating the quotedAt field degrade to a
// plain met label.
func retrospective(deadline time.Time, quotedAt *time.Time) Status {
	if quotedAt == nil {
		return Status{State: StateMet, Label: "SLA met"}
	}
	if quotedAt.After(deadline) {
		return Status{State: StateMissed, Label: fmt.Sprintf("SLA missed: quoted %s late", formatHM(quotedAt.Sub(deadline)))}
	}
	return Status{State: StateMet, Label: fmt.Sprintf("SLA met: quoted with %s to spare", formatHM(deadline.Sub(*quotedAt)))}
}

// formatHM renders a duration as whole hours and minutes, e.g. "3h 05m".
func formatHM(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
