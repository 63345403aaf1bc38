package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"order17vat/internal/auditctx"
	"order17vat/internal/logger"
	"order17vat/internal/metrics"
	"order17vat/internal/model"
	"order17vat/internal/repository"
	ws "order17vat/internal/websocket"

	"go.uber.org/zap"
)

const (
	vatActionSet    = "set"
	vatActionToggle = "toggle"
	vatActionDelete = "delete"
	vatActionSweep  = "sweep"
)

// VatService reads and writes the 17% VAT flag of orders.
// A missing row reads as false and is created on the first write.
type VatService interface {
	GetStatus(ctx context.Context, orderID uint) (bool, error)
	GetStatuses(ctx context.Context, orderIDs []uint) (map[uint]bool, error)
	SetStatus(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error)
	Toggle(ctx context.Context, orderID uint) (*model.VatFlag, error)
	Forget(ctx context.Context, orderID uint) error
	SweepOrphans(ctx context.Context) (int64, error)
}

type vatService struct {
	vatRepo   repository.VatRepository
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	metrics   *metrics.Registry
	hub       *ws.Hub
}

// NewVatService wires the service; hub may be nil when no websocket clients are served.
func NewVatService(
	vatRepo repository.VatRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	metricsRegistry *metrics.Registry,
	hub *ws.Hub,
) VatService {
	return &vatService{
		vatRepo:   vatRepo,
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		metrics:   metricsRegistry,
		hub:       hub,
	}
}

func (s *vatService) GetStatus(ctx context.Context, orderID uint) (bool, error) {
	status, err := s.vatRepo.GetVat17Status(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch vat17 status for order %d: %w", orderID, err)
	}
	return status, nil
}

func (s *vatService) GetStatuses(ctx context.Context, orderIDs []uint) (map[uint]bool, error) {
	statuses, err := s.vatRepo.GetVat17Statuses(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vat17 statuses: %w", err)
	}
	return statuses, nil
}

func (s *vatService) SetStatus(ctx context.Context, orderID uint, isVat17 bool) (*model.VatFlag, error) {
	return s.write(ctx, orderID, vatActionSet, func(bool) bool { return isVat17 })
}

func (s *vatService) Toggle(ctx context.Context, orderID uint) (*model.VatFlag, error) {
	return s.write(ctx, orderID, vatActionToggle, func(current bool) bool { return !current })
}

// write runs find-or-create, then stores next(current) in one transaction
func (s *vatService) write(ctx context.Context, orderID uint, action string, next func(bool) bool) (*model.VatFlag, error) {
	exists, err := s.orderRepo.Exists(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %d: %w", orderID, err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	var (
		flag     *model.VatFlag
		previous bool
		created  bool
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, isNew, err := s.findOrCreate(txCtx, orderID)
		if err != nil {
			return err
		}

		previous = current.IsVat17
		current.IsVat17 = next(current.IsVat17)
		if err := s.vatRepo.Update(txCtx, current); err != nil {
			return &CannotToggleVatStatusError{OrderID: orderID, Err: err}
		}

		flag, created = current, isNew
		return nil
	})
	if err != nil {
		s.metrics.VatWriteErrors.WithLabelValues(action, errorReason(err)).Inc()
		logger.FromContext(ctx).Warn("vat17 write failed",
			zap.Uint("order_id", orderID), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	s.metrics.VatWrites.WithLabelValues(action).Inc()
	if created {
		s.metrics.VatRowsCreated.Inc()
	}

	auditAction := model.ActionSetVat17
	if action == vatActionToggle {
		auditAction = model.ActionToggleVat17
	}
	s.writeAuditLog(ctx, auditAction, orderID, map[string]interface{}{
		"id_vat17":  flag.ID,
		"previous":  previous,
		"is_vat_17": flag.IsVat17,
		"created":   created,
	})
	s.hub.PublishVat17Changed(ctx, flag.OrderID, flag.IsVat17)

	return flag, nil
}

// findOrCreate loads the order's row, creating it with the flag off when absent.
// A create that loses a race against a concurrent writer reuses the winner's row.
func (s *vatService) findOrCreate(ctx context.Context, orderID uint) (*model.VatFlag, bool, error) {
	id, found, err := s.vatRepo.FindIDByOrder(ctx, orderID)
	if err != nil {
		return nil, false, &CannotToggleVatStatusError{OrderID: orderID, Err: err}
	}

	if !found {
		flag, err := s.vatRepo.Create(ctx, orderID, false)
		if err == nil {
			return flag, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicateVatFlag) {
			return nil, false, &CannotCreateVatError{OrderID: orderID, Err: err}
		}

		id, found, err = s.vatRepo.FindIDByOrder(ctx, orderID)
		if err != nil || !found {
			if err == nil {
				err = repository.ErrVatFlagNotFound
			}
			return nil, false, &CannotCreateVatError{OrderID: orderID, Err: err}
		}
	}

	flag, err := s.vatRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, false, &CannotToggleVatStatusError{OrderID: orderID, Err: err}
	}
	return flag, false, nil
}

// Forget removes the order's row once the order itself is gone
func (s *vatService) Forget(ctx context.Context, orderID uint) error {
	removed, err := s.vatRepo.DeleteByOrder(ctx, orderID)
	if err != nil {
		s.metrics.VatWriteErrors.WithLabelValues(vatActionDelete, errorReason(err)).Inc()
		return fmt.Errorf("failed to remove vat17 record for order %d: %w", orderID, err)
	}
	if removed == 0 {
		return nil
	}

	s.metrics.VatRowsRemoved.Add(float64(removed))
	s.writeAuditLog(ctx, model.ActionDeleteVat17, orderID, map[string]interface{}{"rows": removed})
	return nil
}

// SweepOrphans deletes rows whose order no longer exists and returns how many were removed
func (s *vatService) SweepOrphans(ctx context.Context) (int64, error) {
	removed, err := s.vatRepo.DeleteOrphans(ctx)
	if err != nil {
		s.metrics.VatWriteErrors.WithLabelValues(vatActionSweep, errorReason(err)).Inc()
		return 0, fmt.Errorf("failed to sweep orphaned vat17 records: %w", err)
	}

	s.metrics.VatRowsRemoved.Add(float64(removed))
	if removed > 0 {
		s.writeAuditLog(ctx, model.ActionSweepVat17, 0, map[string]interface{}{"rows": removed})
	}
	logger.FromContext(ctx).Info("vat17 orphan sweep finished", zap.Int64("removed", removed))
	return removed, nil
}

// writeAuditLog is best-effort: a failed audit write never fails the flag change
func (s *vatService) writeAuditLog(ctx context.Context, action string, orderID uint, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entityID := ""
	if orderID != 0 {
		entityID = strconv.FormatUint(uint64(orderID), 10)
	}
	entry := &model.AuditLog{
		Actor:      auditctx.Actor(ctx),
		Action:     action,
		EntityID:   entityID,
		EntityName: "order17vat",
		Details:    string(detailsJSON),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("vat17 audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func errorReason(err error) string {
	var createErr *CannotCreateVatError
	var toggleErr *CannotToggleVatStatusError
	switch {
	case errors.As(err, &createErr):
		return "create"
	case errors.As(err, &toggleErr):
		return "update"
	default:
		return "store"
	}
}
