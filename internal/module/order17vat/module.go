// Package order17vat adds a "17% VAT applicable" switch to orders.
//
// The flag lives in its own table keyed by order id. The module shows it as a
// toggle column and filter in the order grid, as a switch in the order form,
// and stores it when the form is saved or the grid toggle is clicked.
package order17vat

import (
	"context"
	"fmt"

	"order17vat/internal/hook"
	"order17vat/internal/repository"
	"order17vat/internal/service"
)

const (
	Name        = "order17vat"
	Version     = "1.0.0"
	DisplayName = "Order VAT 17%"
	Description = "Hold extra vat information for orders"

	// FieldIsVat17 is the grid column, filter and form field name
	FieldIsVat17 = "is_vat_17"
	// RouteToggleIsVat17 names the toggle endpoint linked from the grid column
	RouteToggleIsVat17 = "order17vat_toggle_is_vat_17"
	// ToggleRouteParam is the path parameter carrying the order id
	ToggleRouteParam = "orderId"
)

type Module struct {
	vatRepo    repository.VatRepository
	vatService service.VatService
	hooks      *hook.Registry
}

func New(vatRepo repository.VatRepository, vatService service.VatService, hooks *hook.Registry) *Module {
	return &Module{vatRepo: vatRepo, vatService: vatService, hooks: hooks}
}

// Install creates the flag table and registers the module's hooks. Installing twice is a no-op.
func (m *Module) Install(ctx context.Context) error {
	if err := m.vatRepo.InstallTable(ctx); err != nil {
		return fmt.Errorf("failed to install %s table: %w", Name, err)
	}

	m.hooks.Unregister(Name)
	if err := m.registerHooks(); err != nil {
		m.hooks.Unregister(Name)
		return fmt.Errorf("failed to register %s hooks: %w", Name, err)
	}
	return nil
}

// Uninstall unregisters the hooks. Stored flags are kept unless dropTables is set.
func (m *Module) Uninstall(ctx context.Context, dropTables bool) error {
	m.hooks.Unregister(Name)
	if !dropTables {
		return nil
	}
	if err := m.vatRepo.DropTable(ctx); err != nil {
		return fmt.Errorf("failed to drop %s table: %w", Name, err)
	}
	return nil
}

func (m *Module) IsInstalled() bool {
	for _, module := range m.hooks.Modules(hook.ActionOrderGridDefinitionModifier) {
		if module == Name {
			return true
		}
	}
	return false
}

func (m *Module) registerHooks() error {
	registrations := []func() error{
		func() error { return m.hooks.OnOrderGridDefinition(Name, m.GridDefinitionModifier) },
		func() error { return m.hooks.OnOrderGridQuery(Name, m.GridQueryBuilderModifier) },
		func() error { return m.hooks.OnOrderGridData(Name, m.GridDataModifier) },
		func() error { return m.hooks.OnOrderFormBuilder(Name, m.FormBuilderModifier) },
		func() error { return m.hooks.OnAfterCreateOrderForm(Name, m.AfterCreateOrderFormHandler) },
		func() error { return m.hooks.OnAfterUpdateOrderForm(Name, m.AfterUpdateOrderFormHandler) },
		func() error { return m.hooks.OnAfterDeleteOrder(Name, m.AfterDeleteOrder) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
