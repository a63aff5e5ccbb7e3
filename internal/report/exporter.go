// Package report exports travel requests and their approval audit
// trails to spreadsheets for administrators.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// Exporter writes request reports as .xlsx workbooks
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new report exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

const (
	requestsSheet = "Requests"
	auditSheet    = "Audit Trail"
)

// Export writes two worksheets: one row per request and one row per
// approval step across all cycles, then saves the workbook to path.
func (e *Exporter) Export(requests []*entity.TravelRequest, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the requests sheet
	if err := f.SetSheetName("Sheet1", requestsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(auditSheet); err != nil {
		return fmt.Errorf("failed to create audit sheet: %w", err)
	}

	e.writeRequestRows(f, requests)
	e.writeAuditRows(f, requests)

	if err := f.SaveAs(path); err != nil {
		e.logger.Error("Failed to save report", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info("Report exported", zap.String("path", path), zap.Int("requests", len(requests)))
	return nil
}

func (e *Exporter) writeRequestRows(f *excelize.File, requests []*entity.TravelRequest) {
	e.writeRow(f, requestsSheet, 1, []interface{}{
		"Request No", "Status", "Requester", "Entity", "Travel Type", "Destination",
		"Estimated Cost", "Actual Cost", "Policy Flags", "Current Approver",
		"SLA Deadline", "Submitted At",
	})

	for i, req := range requests {
		e.writeRow(f, requestsSheet, i+2, []interface{}{
			req.RequestNo, req.Status, req.RequesterName, req.Entity, req.TravelType, req.Destination,
			req.EstimatedCost, req.ActualCost, strings.Join(req.PolicyFlags, "; "), req.CurrentApproverRole(),
			formatTime(req.SLADeadline), formatTime(req.SubmittedAt),
		})
	}
}

func (e *Exporter) writeAuditRows(f *excelize.File, requests []*entity.TravelRequest) {
	e.writeRow(f, auditSheet, 1, []interface{}{"Request No", "Cycle", "Role", "Action", "Approver", "Comment", "Timestamp"})

	row := 2
	for _, req := range requests {
		for _, cycle := range req.Cycles {
			for _, step := range cycle.Steps {
				e.writeRow(f, auditSheet, row, []interface{}{
					req.RequestNo, cycle.Seq, step.Role, step.Action,
					step.ApproverName, step.Comment, step.Timestamp.Format(time.RFC3339),
				})
				row++
			}
		}
	}
}

func (e *Exporter) writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		e.logger.Warn("Failed to compute cell name", zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		e.logger.Warn("Failed to write row", zap.String("sheet", sheet), zap.Int("row", row), zap.Error(err))
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
