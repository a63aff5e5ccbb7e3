// Package httpapi exposes the engine over HTTP for the portal's form
// and dashboard collaborators. Handlers translate between JSON payloads
// and the application services; they hold no workflow logic themselves.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/application/service"
	"github.com/nattapongw/travel-portal/internal/approval"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"github.com/nattapongw/travel-portal/internal/domain/workflow"
	"github.com/nattapongw/travel-portal/internal/policy"
	"github.com/nattapongw/travel-portal/internal/report"
	"github.com/nattapongw/travel-portal/pkg/utils"
)

// Handler wires the application services into gin routes
type Handler struct {
	requests  service.RequestService
	admin     service.AdminService
	assistant service.AssistantService
	exporter  *report.Exporter
	reportDir string
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. assistant may be nil when no
// text-generation backend is configured.
func NewHandler(
	requests service.RequestService,
	admin service.AdminService,
	assistant service.AssistantService,
	exporter *report.Exporter,
	reportDir string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		requests:  requests,
		admin:     admin,
		assistant: assistant,
		exporter:  exporter,
		reportDir: reportDir,
		logger:    logger,
	}
}

// RegisterRoutes attaches all API routes to the router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/requests", h.submitRequest)
		api.GET("/requests", h.listRequests)
		api.GET("/requests/:id", h.getRequest)
		api.GET("/requests/:id/sla", h.slaStatus)
		api.GET("/requests/:id/history", h.history)

		api.POST("/requests/:id/quotes", h.requestQuotes)
		api.POST("/requests/:id/quotes/ready", h.quotesReady)
		api.POST("/requests/:id/selection", h.selectQuote)

		api.POST("/requests/:id/approve", h.approve)
		api.POST("/requests/:id/reject", h.reject)
		api.POST("/requests/:id/send-back", h.sendBack)

		api.POST("/policy/evaluate", h.evaluatePolicy)
		api.GET("/policy/mileage", h.mileage)
		api.GET("/policy/per-diem", h.perDiem)

		api.GET("/admin/policy-rules", h.listPolicyRules)
		api.POST("/admin/policy-rules", h.createPolicyRule)
		api.DELETE("/admin/policy-rules/:id", h.deletePolicyRule)
		api.GET("/admin/doa-rules", h.listDOARules)
		api.POST("/admin/doa-rules", h.createDOARule)
		api.DELETE("/admin/doa-rules/:id", h.deleteDOARule)

		api.GET("/reports/requests.xlsx", h.exportRequests)
		api.POST("/assistant", h.ask)
	}
}

func (h *Handler) submitRequest(c *gin.Context) {
	var input service.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.Submit(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) listRequests(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	reqs, err := h.requests.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) getRequest(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) slaStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	status, err := h.requests.SLAStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) history(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cycles":                  req.Cycles,
		"current_approver_role":   req.CurrentApproverRole(),
		"required_approval_chain": req.RequiredApprovalChain(),
	})
}

type quotesBody struct {
	Agencies        []string `json:"agencies"`
	ExpectedVersion int64    `json:"expected_version"`
}

func (h *Handler) requestQuotes(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body quotesBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.RequestQuotes(c.Request.Context(), id, body.Agencies, body.ExpectedVersion)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) quotesReady(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body struct {
		ExpectedVersion int64 `json:"expected_version"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.QuotesReady(c.Request.Context(), id, body.ExpectedVersion)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) selectQuote(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body struct {
		TotalCost       float64 `json:"total_cost"`
		ExpectedVersion int64   `json:"expected_version"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.SelectQuote(c.Request.Context(), id, body.TotalCost, body.ExpectedVersion)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type actionBody struct {
	ApproverID      string `json:"approver_id"`
	ApproverName    string `json:"approver_name"`
	Comment         string `json:"comment"`
	Reason          string `json:"reason"`
	ExpectedVersion int64  `json:"expected_version"`
}

func (h *Handler) approve(c *gin.Context) {
	h.approverAction(c, func(c *gin.Context, id int64, body actionBody) (*entity.TravelRequest, error) {
		return h.requests.Approve(c.Request.Context(), id,
			approval.Approver{ID: body.ApproverID, Name: body.ApproverName}, body.Comment, body.ExpectedVersion)
	})
}

func (h *Handler) reject(c *gin.Context) {
	h.approverAction(c, func(c *gin.Context, id int64, body actionBody) (*entity.TravelRequest, error) {
		return h.requests.Reject(c.Request.Context(), id,
			approval.Approver{ID: body.ApproverID, Name: body.ApproverName}, body.Reason, body.ExpectedVersion)
	})
}

func (h *Handler) sendBack(c *gin.Context) {
	h.approverAction(c, func(c *gin.Context, id int64, body actionBody) (*entity.TravelRequest, error) {
		return h.requests.SendBack(c.Request.Context(), id,
			approval.Approver{ID: body.ApproverID, Name: body.ApproverName}, body.Reason, body.ExpectedVersion)
	})
}

func (h *Handler) approverAction(c *gin.Context, fn func(c *gin.Context, id int64, body actionBody) (*entity.TravelRequest, error)) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.Comment = utils.SanitizeString(body.Comment)
	body.Reason = utils.SanitizeString(body.Reason)

	req, err := fn(c, id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type evaluateBody struct {
	Requester entity.TravelerAttributes `json:"requester"`
	Trip      entity.TripContext        `json:"trip"`
	Services  policy.RequestedServices  `json:"services"`
}

func (h *Handler) evaluatePolicy(c *gin.Context) {
	var body evaluateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict, err := h.requests.EvaluatePolicy(c.Request.Context(), body.Requester, body.Trip, body.Services)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

func (h *Handler) mileage(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Query("distance_km"), 64)
	if err != nil || distance < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distance_km must be a non-negative number"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distance_km":   distance,
		"reimbursement": policy.MileageReimbursement(distance),
		"currency":      "THB",
	})
}

func (h *Handler) perDiem(c *gin.Context) {
	grade, err := strconv.Atoi(c.DefaultQuery("job_grade", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_grade must be an integer"})
		return
	}
	amount, currency := policy.PerDiem(c.Query("travel_type"), c.Query("destination"), grade)
	c.JSON(http.StatusOK, gin.H{"amount": amount, "currency": currency})
}

func (h *Handler) listPolicyRules(c *gin.Context) {
	rules, err := h.admin.ListPolicyRules(c.Request.Context(), c.DefaultQuery("entity", entity.EntityAll))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *Handler) createPolicyRule(c *gin.Context) {
	var rule entity.PolicyRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.admin.CreatePolicyRule(c.Request.Context(), &rule); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) deletePolicyRule(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.admin.DeletePolicyRule(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDOARules(c *gin.Context) {
	rules, err := h.admin.ListDOARules(c.Request.Context(), c.DefaultQuery("entity", entity.EntityAll))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *Handler) createDOARule(c *gin.Context) {
	var rule entity.DOARule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.admin.CreateDOARule(c.Request.Context(), &rule); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) deleteDOARule(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteDOARule(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportRequests(c *gin.Context) {
	reqs, err := h.requests.List(c.Request.Context(), intQuery(c, "limit", 1000), 0)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := os.MkdirAll(h.reportDir, 0755); err != nil {
		h.fail(c, err)
		return
	}
	path := filepath.Join(h.reportDir, fmt.Sprintf("requests-%s.xlsx", time.Now().Format("20060102-150405")))
	if err := h.exporter.Export(reqs, path); err != nil {
		h.fail(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *Handler) ask(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var body struct {
		Question    string `json:"question"`
		ReceiptPath string `json:"receipt_path"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), body.Question, body.ReceiptPath)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// fail maps engine errors to HTTP statuses. Violation lists are not
// errors and never pass through here.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, port.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrVersionConflict), errors.Is(err, port.ErrStaleRecord):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrChainExhausted), errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
