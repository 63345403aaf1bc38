package service

import (
	"context"
	"strconv"

	"order17vat/internal/model"
	"order17vat/internal/repository"
)

// vatActions are the audit actions written by flag changes
var vatActions = []string{
	model.ActionToggleVat17,
	model.ActionSetVat17,
	model.ActionDeleteVat17,
	model.ActionSweepVat17,
}

type AuditLogResponse struct {
	ID         string `json:"id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery selects audit entries. OrderID 0 means every order.
type AuditQuery struct {
	OrderID uint
	Actor   string
	VatOnly bool
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, query AuditQuery, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs returns one page of the audit history, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, query AuditQuery, page, limit int) ([]AuditLogResponse, int64, error) {
	filter := repository.AuditFilter{Actor: query.Actor}
	if query.OrderID != 0 {
		filter.EntityID = strconv.FormatUint(uint64(query.OrderID), 10)
	}
	if query.VatOnly {
		filter.Actions = vatActions
	}

	logs, total, err := s.auditRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actor := l.Actor
		if actor == "" {
			actor = "System"
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Actor:      actor,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
