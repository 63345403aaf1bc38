// Package app wires repositories, services and the order17vat module on top of a database handle.
package app

import (
	"order17vat/internal/hook"
	"order17vat/internal/metrics"
	"order17vat/internal/module/order17vat"
	"order17vat/internal/repository"
	"order17vat/internal/service"
	"order17vat/internal/websocket"

	"gorm.io/gorm"
)

type App struct {
	DB      *gorm.DB
	Hub     *websocket.Hub
	Metrics *metrics.Registry
	Hooks   *hook.Registry

	OrderRepo repository.OrderRepository
	VatRepo   repository.VatRepository
	AuditRepo repository.AuditRepository

	VatService   service.VatService
	OrderService service.OrderService
	AuditService service.AuditService

	Module *order17vat.Module
}

// New builds the dependency graph (Repository -> Service -> Module). hub may be nil.
func New(db *gorm.DB, hub *websocket.Hub) *App {
	hooks := hook.NewRegistry()
	metricsRegistry := metrics.NewRegistry()

	txManager := repository.NewTransactionManager(db)
	orderRepo := repository.NewOrderRepository(db)
	vatRepo := repository.NewVatRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	vatService := service.NewVatService(vatRepo, orderRepo, auditRepo, txManager, metricsRegistry, hub)

	return &App{
		DB:           db,
		Hub:          hub,
		Metrics:      metricsRegistry,
		Hooks:        hooks,
		OrderRepo:    orderRepo,
		VatRepo:      vatRepo,
		AuditRepo:    auditRepo,
		VatService:   vatService,
		OrderService: service.NewOrderService(orderRepo, auditRepo, txManager, hooks),
		AuditService: service.NewAuditService(auditRepo),
		Module:       order17vat.New(vatRepo, vatService, hooks),
	}
}
