package order17vat

import (
	"context"
	"fmt"
	"strings"

	"order17vat/internal/hook"
	"order17vat/internal/model"
	"order17vat/pkg/form"
	"order17vat/pkg/grid"
)

const (
	joinAlias    = "cuva"
	statusExpr   = "COALESCE(" + joinAlias + ".is_vat_17, false)"
	optinColumn  = "optin"
	orderIDField = "id_order"
)

// GridDefinitionModifier adds the toggle column after the opt-in column and a yes/no filter
func (m *Module) GridDefinitionModifier(ctx context.Context, definition *grid.Definition) error {
	if definition == nil {
		return nil
	}

	definition.Columns().AddAfter(optinColumn,
		grid.NewToggleColumn(FieldIsVat17).
			SetName("Order 17 Vat").
			SetOptions(map[string]interface{}{
				"field":            FieldIsVat17,
				"primary_field":    orderIDField,
				"route":            RouteToggleIsVat17,
				"route_param_name": ToggleRouteParam,
			}),
	)

	definition.Filters().Add(
		grid.NewFilter(FieldIsVat17, grid.FilterTypeYesNo).SetAssociatedColumn(FieldIsVat17),
	)
	return nil
}

// GridQueryBuilderModifier joins the flag table and applies the flag's sort and filter.
// Orders without a row read, sort and filter as false.
func (m *Module) GridQueryBuilderModifier(ctx context.Context, query *grid.Query, criteria grid.SearchCriteria) error {
	query.AddSelect(statusExpr + " AS " + FieldIsVat17)
	query.LeftJoin(model.VatFlag{}.TableName(), joinAlias, joinAlias+".id_order = o.id_order")

	if criteria.OrderBy == FieldIsVat17 {
		query.OrderBy(statusExpr, criteria.Direction())
	}

	raw, ok := criteria.Filters[FieldIsVat17]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	value, err := grid.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", grid.ErrInvalidFilter, FieldIsVat17, raw)
	}
	if value {
		query.AndWhere(joinAlias+".is_vat_17 = ?", true)
	} else {
		query.AndWhere("("+joinAlias+".is_vat_17 = ? OR "+joinAlias+".is_vat_17 IS NULL)", false)
	}
	return nil
}

// GridDataModifier sets every row's flag from one lookup for the whole page
func (m *Module) GridDataModifier(ctx context.Context, data *grid.Data) error {
	if data == nil || len(data.Records) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(data.Records))
	for _, record := range data.Records {
		if id, ok := record.Uint(orderIDField); ok {
			ids = append(ids, id)
		}
	}

	statuses, err := m.vatService.GetStatuses(ctx, ids)
	if err != nil {
		return err
	}

	for _, record := range data.Records {
		id, ok := record.Uint(orderIDField)
		record[FieldIsVat17] = ok && statuses[id]
	}
	return nil
}

// FormBuilderModifier adds the switch and prefills it with the stored flag
func (m *Module) FormBuilderModifier(ctx context.Context, params *hook.FormBuilderParams) error {
	params.Builder.Add(FieldIsVat17, form.TypeSwitch, map[string]interface{}{
		"label":    "VAT 17%",
		"required": false,
	})

	status := false
	if params.ID != nil {
		var err error
		if status, err = m.vatService.GetStatus(ctx, *params.ID); err != nil {
			return err
		}
	}

	if params.Data == nil {
		params.Data = map[string]interface{}{}
	}
	params.Data[FieldIsVat17] = status
	params.Builder.SetData(params.Data)
	return nil
}

func (m *Module) AfterCreateOrderFormHandler(ctx context.Context, params hook.FormHandlerParams) error {
	return m.updateOrderVat17Status(ctx, params)
}

func (m *Module) AfterUpdateOrderFormHandler(ctx context.Context, params hook.FormHandlerParams) error {
	return m.updateOrderVat17Status(ctx, params)
}

// AfterDeleteOrder drops the deleted order's flag row
func (m *Module) AfterDeleteOrder(ctx context.Context, orderID uint) error {
	return m.vatService.Forget(ctx, orderID)
}

// updateOrderVat17Status stores the submitted switch value. Forms that did not carry the field leave the flag as is.
func (m *Module) updateOrderVat17Status(ctx context.Context, params hook.FormHandlerParams) error {
	raw, submitted := params.FormData[FieldIsVat17]
	if !submitted {
		return nil
	}

	_, err := m.vatService.SetStatus(ctx, params.ID, formBool(raw))
	return err
}

// formBool reads a submitted switch value; JSON and form encodings both reach here
func formBool(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case int:
		return value != 0
	case string:
		b, err := grid.ParseBool(value)
		return err == nil && b
	}
	return false
}
