package hook

import (
	"context"
	"fmt"
	"sync"

	"order17vat/pkg/form"
	"order17vat/pkg/grid"
)

// Name identifies a hook point dispatched by the order admin
type Name string

const (
	ActionOrderGridDefinitionModifier   Name = "actionOrderGridDefinitionModifier"
	ActionOrderGridQueryBuilderModifier Name = "actionOrderGridQueryBuilderModifier"
	ActionOrderGridDataModifier         Name = "actionOrderGridDataModifier"
	ActionOrderFormBuilderModifier      Name = "actionOrderFormBuilderModifier"
	ActionAfterCreateOrderFormHandler   Name = "actionAfterCreateOrderFormHandler"
	ActionAfterUpdateOrderFormHandler   Name = "actionAfterUpdateOrderFormHandler"
	ActionAfterDeleteOrder              Name = "actionAfterDeleteOrder"
)

// FormBuilderParams is passed to form builder modifiers.
// ID is nil when the form creates a new order.
type FormBuilderParams struct {
	Builder *form.Builder
	ID      *uint
	Data    map[string]interface{}
}

// FormHandlerParams is passed to after-create and after-update handlers
type FormHandlerParams struct {
	ID       uint
	FormData map[string]interface{}
}

type (
	GridDefinitionFunc func(ctx context.Context, definition *grid.Definition) error
	GridQueryFunc      func(ctx context.Context, query *grid.Query, criteria grid.SearchCriteria) error
	GridDataFunc       func(ctx context.Context, data *grid.Data) error
	FormBuilderFunc    func(ctx context.Context, params *FormBuilderParams) error
	FormHandlerFunc    func(ctx context.Context, params FormHandlerParams) error
	OrderFunc          func(ctx context.Context, orderID uint) error
)

// DispatchError reports which module's callback failed during a dispatch
type DispatchError struct {
	Hook   Name
	Module string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("hook %s (module %s): %v", e.Hook, e.Module, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

type entry struct {
	module string
	fn     interface{}
}

// Registry holds module callbacks per hook point. Callbacks run in registration order.
type Registry struct {
	mu    sync.RWMutex
	hooks map[Name][]entry
}

func NewRegistry() *Registry {
	return &Registry{hooks: make(map[Name][]entry)}
}

func (r *Registry) register(name Name, module string, fn interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.hooks[name] {
		if e.module == module {
			return fmt.Errorf("module %q already registered on hook %s", module, name)
		}
	}
	r.hooks[name] = append(r.hooks[name], entry{module: module, fn: fn})
	return nil
}

func (r *Registry) OnOrderGridDefinition(module string, fn GridDefinitionFunc) error {
	return r.register(ActionOrderGridDefinitionModifier, module, fn)
}

func (r *Registry) OnOrderGridQuery(module string, fn GridQueryFunc) error {
	return r.register(ActionOrderGridQueryBuilderModifier, module, fn)
}

func (r *Registry) OnOrderGridData(module string, fn GridDataFunc) error {
	return r.register(ActionOrderGridDataModifier, module, fn)
}

func (r *Registry) OnOrderFormBuilder(module string, fn FormBuilderFunc) error {
	return r.register(ActionOrderFormBuilderModifier, module, fn)
}

func (r *Registry) OnAfterCreateOrderForm(module string, fn FormHandlerFunc) error {
	return r.register(ActionAfterCreateOrderFormHandler, module, fn)
}

func (r *Registry) OnAfterUpdateOrderForm(module string, fn FormHandlerFunc) error {
	return r.register(ActionAfterUpdateOrderFormHandler, module, fn)
}

func (r *Registry) OnAfterDeleteOrder(module string, fn OrderFunc) error {
	return r.register(ActionAfterDeleteOrder, module, fn)
}

// Unregister removes every callback the module registered
func (r *Registry) Unregister(module string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, entries := range r.hooks {
		kept := entries[:0]
		for _, e := range entries {
			if e.module != module {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(r.hooks, name)
			continue
		}
		r.hooks[name] = kept
	}
}

// Modules lists the modules registered on a hook, in dispatch order
func (r *Registry) Modules(name Name) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.hooks[name]))
	for _, e := range r.hooks[name] {
		out = append(out, e.module)
	}
	return out
}

func (r *Registry) entries(name Name) []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry(nil), r.hooks[name]...)
}

func (r *Registry) DispatchOrderGridDefinition(ctx context.Context, definition *grid.Definition) error {
	for _, e := range r.entries(ActionOrderGridDefinitionModifier) {
		if err := e.fn.(GridDefinitionFunc)(ctx, definition); err != nil {
			return &DispatchError{Hook: ActionOrderGridDefinitionModifier, Module: e.module, Err: err}
		}
	}
	return nil
}

func (r *Registry) DispatchOrderGridQuery(ctx context.Context, query *grid.Query, criteria grid.SearchCriteria) error {
	for _, e := range r.entries(ActionOrderGridQueryBuilderModifier) {
		if err := e.fn.(GridQueryFunc)(ctx, query, criteria); err != nil {
			return &DispatchError{Hook: ActionOrderGridQueryBuilderModifier, Module: e.module, Err: err}
		}
	}
	return nil
}

func (r *Registry) DispatchOrderGridData(ctx context.Context, data *grid.Data) error {
	for _, e := range r.entries(ActionOrderGridDataModifier) {
		if err := e.fn.(GridDataFunc)(ctx, data); err != nil {
			return &DispatchError{Hook: ActionOrderGridDataModifier, Module: e.module, Err: err}
		}
	}
	return nil
}

func (r *Registry) DispatchOrderFormBuilder(ctx context.Context, params *FormBuilderParams) error {
	for _, e := range r.entries(ActionOrderFormBuilderModifier) {
		if err := e.fn.(FormBuilderFunc)(ctx, params); err != nil {
			return &DispatchError{Hook: ActionOrderFormBuilderModifier, Module: e.module, Err: err}
		}
	}
	return nil
}

func (r *Registry) DispatchAfterCreateOrderForm(ctx context.Context, params FormHandlerParams) error {
	return r.dispatchFormHandler(ctx, ActionAfterCreateOrderFormHandler, params)
}

func (r *Registry) DispatchAfterUpdateOrderForm(ctx context.Context, params FormHandlerParams) error {
	return r.dispatchFormHandler(ctx, ActionAfterUpdateOrderFormHandler, params)
}

func (r *Registry) dispatchFormHandler(ctx context.Context, name Name, params FormHandlerParams) error {
	for _, e := range r.entries(name) {
		if err := e.fn.(FormHandlerFunc)(ctx, params); err != nil {
			return &DispatchError{Hook: name, Module: e.module, Err: err}
		}
	}
	return nil
}

func (r *Registry) DispatchAfterDeleteOrder(ctx context.Context, orderID uint) error {
	for _, e := range r.entries(ActionAfterDeleteOrder) {
		if err := e.fn.(OrderFunc)(ctx, orderID); err != nil {
			return &DispatchError{Hook: ActionAfterDeleteOrder, Module: e.module, Err: err}
		}
	}
	return nil
}
