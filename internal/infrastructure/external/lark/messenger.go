// Package lark sends approval notifications through the Lark messaging
// API. It implements port.Notifier; approver roles are mapped to Lark
// user emails by configuration.
package lark

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"github.com/nattapongw/travel-portal/pkg/utils"
)

// Config holds Lark client configuration
type Config struct {
	AppID     string
	AppSecret string

	// RoleRecipients maps approver role names to Lark user emails
	RoleRecipients map[string]string
}

// Messenger implements port.Notifier over Lark text messages
type Messenger struct {
	client     *lark.Client
	recipients map[string]string
	logger     *zap.Logger
}

// NewMessenger creates a new Lark messenger
func NewMessenger(cfg Config, logger *zap.Logger) *Messenger {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	for role, email := range cfg.RoleRecipients {
		if err := utils.ValidateEmail(email); err != nil {
			logger.Warn("Invalid Lark recipient email; notifications to this role will fail",
				zap.String("role", role), zap.Error(err))
		}
	}

	return &Messenger{
		client:     client,
		recipients: cfg.RoleRecipients,
		logger:     logger,
	}
}

// NotifyPendingApproval tells the holder of the role that a request is
// waiting for their decision.
func (m *Messenger) NotifyPendingApproval(ctx context.Context, role string, req *entity.TravelRequest) error {
	recipient, ok := m.recipients[role]
	if !ok {
		m.logger.Warn("No Lark recipient configured for role", zap.String("role", role))
		return nil
	}

	text := fmt.Sprintf("Travel request %s (%s, %.2f THB) from %s is waiting for your approval as %s.",
		req.RequestNo, req.Destination, req.EstimatedCost, req.RequesterName, role)
	return m.sendText(ctx, recipient, text)
}

// NotifyOutcome tells the requester about a decision on their request.
func (m *Messenger) NotifyOutcome(ctx context.Context, req *entity.TravelRequest, outcome string) error {
	if req.RequesterID == "" {
		return nil
	}

	text := fmt.Sprintf("Your travel request %s (%s) has been %s.", req.RequestNo, req.Destination, outcome)
	if req.PolicyExceptionReason != "" {
		text += " " + req.PolicyExceptionReason
	}
	return m.sendText(ctx, req.RequesterID, text)
}

func (m *Messenger) sendText(ctx context.Context, email, text string) error {
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("email").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(email).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := m.client.Im.Message.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send Lark message", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}
	if !resp.Success() {
		m.logger.Error("Lark API returned failure",
			zap.String("email", email), zap.Int("code", resp.Code), zap.String("msg", resp.Msg))
		return fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	m.logger.Info("Notification sent", zap.String("email", email))
	return nil
}
