package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"order17vat/internal/auditctx"
	"order17vat/internal/hook"
	"order17vat/internal/model"
	"order17vat/internal/repository"
	"order17vat/pkg/form"
	"order17vat/pkg/grid"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateReference = errors.New("an order with this reference already exists")
	ErrInvalidOrderInput  = errors.New("invalid order input")
)

// --- DTOs ---

type OrderFormRequest struct {
	Reference    string `json:"reference" binding:"required,max=32"`
	CustomerName string `json:"customer_name" binding:"required,max=255"`
	TotalPaid    string `json:"total_paid" binding:"required"` // Decimal string, e.g. "119.90"
	Optin        bool   `json:"optin"`
}

type OrderResponse struct {
	ID           uint   `json:"id_order"`
	Reference    string `json:"reference"`
	CustomerName string `json:"customer_name"`
	TotalPaid    string `json:"total_paid"`
	Optin        bool   `json:"optin"`
	CreatedAt    string `json:"date_add"`
}

type OrderGridResponse struct {
	Definition *grid.Definition `json:"definition"`
	Records    []grid.Record    `json:"records"`
	Total      int64            `json:"total"`
}

// host columns that may be sorted on, mapped to their SQL expression
var orderSortColumns = map[string]string{
	"id_order":      "o.id_order",
	"reference":     "o.reference",
	"customer_name": "o.customer_name",
	"total_paid":    "o.total_paid",
	"optin":         "o.optin",
	"date_add":      "o.date_add",
}

// --- Interface ---

// OrderService backs the order list grid and edit form, dispatching module hooks along the way.
// Errors from after-save hooks come back as *hook.DispatchError next to a saved order.
type OrderService interface {
	GetGrid(ctx context.Context, criteria grid.SearchCriteria) (*OrderGridResponse, error)
	GetForm(ctx context.Context, orderID *uint) (*form.Builder, error)
	CreateOrder(ctx context.Context, req OrderFormRequest, formData map[string]interface{}) (OrderResponse, error)
	UpdateOrder(ctx context.Context, id uint, req OrderFormRequest, formData map[string]interface{}) (OrderResponse, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hooks     *hook.Registry
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hooks *hook.Registry,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hooks:     hooks,
	}
}

// --- Implementation ---

func (s *orderService) GetGrid(ctx context.Context, criteria grid.SearchCriteria) (*OrderGridResponse, error) {
	definition := newOrderGridDefinition()
	if err := s.hooks.DispatchOrderGridDefinition(ctx, definition); err != nil {
		return nil, err
	}

	query := s.orderRepo.GridQuery(ctx)
	if err := s.hooks.DispatchOrderGridQuery(ctx, query, criteria); err != nil {
		return nil, err
	}
	applyOrderCriteria(query, criteria)

	total, err := query.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	records, err := query.Fetch(criteria.Limit, criteria.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	data := &grid.Data{Records: records, RecordsTotal: total}
	if err := s.hooks.DispatchOrderGridData(ctx, data); err != nil {
		return nil, err
	}

	return &OrderGridResponse{
		Definition: definition,
		Records:    data.Records,
		Total:      data.RecordsTotal,
	}, nil
}

func (s *orderService) GetForm(ctx context.Context, orderID *uint) (*form.Builder, error) {
	builder := form.NewBuilder("order").
		Add("reference", form.TypeText, map[string]interface{}{"label": "Reference", "required": true}).
		Add("customer_name", form.TypeText, map[string]interface{}{"label": "Customer", "required": true}).
		Add("total_paid", form.TypeMoney, map[string]interface{}{"label": "Total paid", "required": true}).
		Add("optin", form.TypeSwitch, map[string]interface{}{"label": "Newsletter opt-in", "required": false})

	data := map[string]interface{}{
		"reference":     "",
		"customer_name": "",
		"total_paid":    "0.00",
		"optin":         false,
	}
	if orderID != nil {
		order, err := s.orderRepo.FindByID(ctx, *orderID)
		if err != nil {
			return nil, err
		}
		data = map[string]interface{}{
			"reference":     order.Reference,
			"customer_name": order.CustomerName,
			"total_paid":    order.TotalPaid.StringFixed(2),
			"optin":         order.Optin,
		}
	}
	builder.SetData(data)

	params := &hook.FormBuilderParams{Builder: builder, ID: orderID, Data: data}
	if err := s.hooks.DispatchOrderFormBuilder(ctx, params); err != nil {
		return nil, err
	}

	return builder, nil
}

func (s *orderService) CreateOrder(ctx context.Context, req OrderFormRequest, formData map[string]interface{}) (OrderResponse, error) {
	total, err := parseTotalPaid(req.TotalPaid)
	if err != nil {
		return OrderResponse{}, err
	}

	order := model.Order{
		Reference:    strings.TrimSpace(req.Reference),
		CustomerName: strings.TrimSpace(req.CustomerName),
		TotalPaid:    total,
		Optin:        req.Optin,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			if repository.IsDuplicateKeyErr(err) {
				return ErrDuplicateReference
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		return s.writeAuditLog(txCtx, model.ActionCreateOrder, order, req)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	resp := toOrderResponse(order)
	return resp, s.hooks.DispatchAfterCreateOrderForm(ctx, hook.FormHandlerParams{ID: order.ID, FormData: formData})
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, req OrderFormRequest, formData map[string]interface{}) (OrderResponse, error) {
	total, err := parseTotalPaid(req.TotalPaid)
	if err != nil {
		return OrderResponse{}, err
	}

	var order *model.Order
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		found.Reference = strings.TrimSpace(req.Reference)
		found.CustomerName = strings.TrimSpace(req.CustomerName)
		found.TotalPaid = total
		found.Optin = req.Optin

		if err := s.orderRepo.Update(txCtx, found); err != nil {
			if repository.IsDuplicateKeyErr(err) {
				return ErrDuplicateReference
			}
			return fmt.Errorf("failed to update order: %w", err)
		}
		order = found
		return s.writeAuditLog(txCtx, model.ActionUpdateOrder, *found, req)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	resp := toOrderResponse(*order)
	return resp, s.hooks.DispatchAfterUpdateOrderForm(ctx, hook.FormHandlerParams{ID: order.ID, FormData: formData})
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return s.writeAuditLog(txCtx, model.ActionDeleteOrder, *order, map[string]uint{"deleted_id": id})
	})
	if err != nil {
		return err
	}

	return s.hooks.DispatchAfterDeleteOrder(ctx, id)
}

// --- Helpers ---

func newOrderGridDefinition() *grid.Definition {
	definition := grid.NewDefinition("order", "Orders")
	definition.Columns().
		Add(grid.NewDataColumn("id_order").SetName("ID")).
		Add(grid.NewDataColumn("reference").SetName("Reference")).
		Add(grid.NewDataColumn("customer_name").SetName("Customer")).
		Add(grid.NewDataColumn("total_paid").SetName("Total")).
		Add(grid.NewDataColumn("optin").SetName("Newsletter")).
		Add(grid.NewDataColumn("date_add").SetName("Date"))

	definition.Filters().
		Add(grid.NewFilter("reference", grid.FilterTypeText).SetAssociatedColumn("reference")).
		Add(grid.NewFilter("customer_name", grid.FilterTypeText).SetAssociatedColumn("customer_name")).
		Add(grid.NewFilter("optin", grid.FilterTypeYesNo).SetAssociatedColumn("optin"))

	return definition
}

// applyOrderCriteria handles the filters and sort keys owned by the order grid itself.
// Unknown keys belong to modules and are left to their query hooks.
func applyOrderCriteria(query *grid.Query, criteria grid.SearchCriteria) {
	for name, value := range criteria.Filters {
		if strings.TrimSpace(value) == "" {
			continue
		}
		switch name {
		case "reference":
			query.AndWhere("LOWER(o.reference) LIKE ?", "%"+strings.ToLower(value)+"%")
		case "customer_name":
			query.AndWhere("LOWER(o.customer_name) LIKE ?", "%"+strings.ToLower(value)+"%")
		case "optin":
			if optin, err := grid.ParseBool(value); err == nil {
				query.AndWhere("o.optin = ?", optin)
			}
		}
	}

	if expr, ok := orderSortColumns[criteria.OrderBy]; ok {
		query.OrderBy(expr, criteria.Direction())
	}
	if !query.HasOrder() {
		query.OrderBy("o.id_order", "DESC")
		return
	}
	query.OrderBy("o.id_order", "ASC")
}

func parseTotalPaid(raw string) (decimal.Decimal, error) {
	total, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: total_paid %q is not a decimal", ErrInvalidOrderInput, raw)
	}
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: total_paid must not be negative", ErrInvalidOrderInput)
	}
	return total.Round(6), nil
}

func toOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		CustomerName: o.CustomerName,
		TotalPaid:    o.TotalPaid.StringFixed(2),
		Optin:        o.Optin,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}

func (s *orderService) writeAuditLog(ctx context.Context, action string, order model.Order, details interface{}) error {
	detailsJSON, _ := json.Marshal(details)
	entry := &model.AuditLog{
		Actor:      auditctx.Actor(ctx),
		Action:     action,
		EntityID:   strconv.FormatUint(uint64(order.ID), 10),
		EntityName: order.Reference,
		Details:    string(detailsJSON),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
