package grid

import "encoding/json"

// Column types understood by the admin grid renderer
const (
	ColumnTypeData   = "data"
	ColumnTypeToggle = "toggle"
)

// Filter types understood by the admin grid renderer
const (
	FilterTypeText  = "text"
	FilterTypeYesNo = "yes_no"
)

// Column describes one grid column
type Column struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// NewDataColumn creates a plain value column
func NewDataColumn(id string) *Column {
	return &Column{ID: id, Name: id, Type: ColumnTypeData, Options: map[string]interface{}{"field": id}}
}

// NewToggleColumn creates a column rendered as an on/off switch that links to a toggle route
func NewToggleColumn(id string) *Column {
	return &Column{ID: id, Name: id, Type: ColumnTypeToggle, Options: map[string]interface{}{}}
}

func (c *Column) SetName(name string) *Column {
	c.Name = name
	return c
}

func (c *Column) SetOptions(options map[string]interface{}) *Column {
	c.Options = options
	return c
}

// ColumnCollection keeps columns in display order
type ColumnCollection struct {
	columns []*Column
}

// Add appends a column, replacing any existing column with the same id
func (cc *ColumnCollection) Add(column *Column) *ColumnCollection {
	if i := cc.indexOf(column.ID); i >= 0 {
		cc.columns[i] = column
		return cc
	}
	cc.columns = append(cc.columns, column)
	return cc
}

// AddAfter inserts a column right after the column with the given id.
// When that column does not exist the new column is appended.
func (cc *ColumnCollection) AddAfter(afterID string, column *Column) *ColumnCollection {
	if i := cc.indexOf(column.ID); i >= 0 {
		cc.columns = append(cc.columns[:i], cc.columns[i+1:]...)
	}

	i := cc.indexOf(afterID)
	if i < 0 {
		cc.columns = append(cc.columns, column)
		return cc
	}

	cc.columns = append(cc.columns[:i+1], append([]*Column{column}, cc.columns[i+1:]...)...)
	return cc
}

func (cc *ColumnCollection) Get(id string) (*Column, bool) {
	if i := cc.indexOf(id); i >= 0 {
		return cc.columns[i], true
	}
	return nil, false
}

func (cc *ColumnCollection) All() []*Column {
	out := make([]*Column, len(cc.columns))
	copy(out, cc.columns)
	return out
}

func (cc *ColumnCollection) indexOf(id string) int {
	for i, c := range cc.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (cc *ColumnCollection) MarshalJSON() ([]byte, error) {
	if cc.columns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(cc.columns)
}

// Filter describes one grid filter input
type Filter struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	AssociatedColumn string `json:"associated_column,omitempty"`
}

func NewFilter(name, filterType string) *Filter {
	return &Filter{Name: name, Type: filterType}
}

func (f *Filter) SetAssociatedColumn(columnID string) *Filter {
	f.AssociatedColumn = columnID
	return f
}

// FilterCollection keeps filters keyed by name in insertion order
type FilterCollection struct {
	filters []*Filter
}

func (fc *FilterCollection) Add(filter *Filter) *FilterCollection {
	for i, f := range fc.filters {
		if f.Name == filter.Name {
			fc.filters[i] = filter
			return fc
		}
	}
	fc.filters = append(fc.filters, filter)
	return fc
}

func (fc *FilterCollection) Get(name string) (*Filter, bool) {
	for _, f := range fc.filters {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (fc *FilterCollection) All() []*Filter {
	out := make([]*Filter, len(fc.filters))
	copy(out, fc.filters)
	return out
}

func (fc *FilterCollection) MarshalJSON() ([]byte, error) {
	if fc.filters == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(fc.filters)
}

// Definition is the full description of a grid: its columns and filters
type Definition struct {
	ID      string
	Name    string
	columns *ColumnCollection
	filters *FilterCollection
}

func NewDefinition(id, name string) *Definition {
	return &Definition{
		ID:      id,
		Name:    name,
		columns: &ColumnCollection{},
		filters: &FilterCollection{},
	}
}

func (d *Definition) Columns() *ColumnCollection { return d.columns }

func (d *Definition) Filters() *FilterCollection { return d.filters }

func (d *Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string            `json:"id"`
		Name    string            `json:"name"`
		Columns *ColumnCollection `json:"columns"`
		Filters *FilterCollection `json:"filters"`
	}{d.ID, d.Name, d.columns, d.filters})
}
