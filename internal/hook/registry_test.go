package hook

import (
	"context"
	"errors"
	"testing"

	"order17vat/pkg/form"
	"order17vat/pkg/grid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDispatchesInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string

	require.NoError(t, r.OnOrderGridDefinition("first", func(ctx context.Context, d *grid.Definition) error {
		calls = append(calls, "first")
		d.Columns().Add(grid.NewDataColumn("a"))
		return nil
	}))
	require.NoError(t, r.OnOrderGridDefinition("second", func(ctx context.Context, d *grid.Definition) error {
		calls = append(calls, "second")
		d.Columns().Add(grid.NewDataColumn("b"))
		return nil
	}))

	def := grid.NewDefinition("order", "Orders")
	require.NoError(t, r.DispatchOrderGridDefinition(context.Background(), def))

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Len(t, def.Columns().All(), 2)
	assert.Equal(t, []string{"first", "second"}, r.Modules(ActionOrderGridDefinitionModifier))
}

func TestRegistryRejectsDuplicateModule(t *testing.T) {
	r := NewRegistry()
	fn := func(ctx context.Context, orderID uint) error { return nil }

	require.NoError(t, r.OnAfterDeleteOrder("vat", fn))
	assert.Error(t, r.OnAfterDeleteOrder("vat", fn))
}

func TestRegistryFirstErrorStopsDispatch(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	secondCalled := false

	require.NoError(t, r.OnAfterCreateOrderForm("failing", func(ctx context.Context, p FormHandlerParams) error {
		return boom
	}))
	require.NoError(t, r.OnAfterCreateOrderForm("other", func(ctx context.Context, p FormHandlerParams) error {
		secondCalled = true
		return nil
	}))

	err := r.DispatchAfterCreateOrderForm(context.Background(), FormHandlerParams{ID: 7})
	require.Error(t, err)
	assert.False(t, secondCalled)
	assert.ErrorIs(t, err, boom)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ActionAfterCreateOrderFormHandler, dispatchErr.Hook)
	assert.Equal(t, "failing", dispatchErr.Module)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	called := 0
	require.NoError(t, r.OnOrderFormBuilder("vat", func(ctx context.Context, p *FormBuilderParams) error {
		called++
		return nil
	}))
	require.NoError(t, r.OnAfterUpdateOrderForm("vat", func(ctx context.Context, p FormHandlerParams) error {
		called++
		return nil
	}))
	require.NoError(t, r.OnOrderGridData("other", func(ctx context.Context, d *grid.Data) error { return nil }))

	r.Unregister("vat")

	require.NoError(t, r.DispatchOrderFormBuilder(context.Background(), &FormBuilderParams{Builder: form.NewBuilder("order")}))
	require.NoError(t, r.DispatchAfterUpdateOrderForm(context.Background(), FormHandlerParams{ID: 1}))
	assert.Zero(t, called)
	assert.Empty(t, r.Modules(ActionOrderFormBuilderModifier))
	assert.Equal(t, []string{"other"}, r.Modules(ActionOrderGridDataModifier))

	// registering again after unregister is allowed
	require.NoError(t, r.OnAfterUpdateOrderForm("vat", func(ctx context.Context, p FormHandlerParams) error { return nil }))
}

func TestRegistryDispatchWithoutHandlers(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	assert.NoError(t, r.DispatchOrderGridQuery(ctx, nil, grid.SearchCriteria{}))
	assert.NoError(t, r.DispatchOrderGridData(ctx, &grid.Data{}))
	assert.NoError(t, r.DispatchAfterDeleteOrder(ctx, 1))
}
