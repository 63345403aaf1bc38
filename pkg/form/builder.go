package form

import "encoding/json"

// Field types understood by the admin form renderer
const (
	TypeText   = "text"
	TypeMoney  = "money"
	TypeSwitch = "switch"
)

type Field struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// Builder collects the fields of an edit form together with its prefilled data
type Builder struct {
	name   string
	fields []*Field
	data   map[string]interface{}
}

func NewBuilder(name string) *Builder {
	return &Builder{name: name, data: map[string]interface{}{}}
}

// Add registers a field; adding a name twice replaces the earlier field
func (b *Builder) Add(name, fieldType string, options map[string]interface{}) *Builder {
	field := &Field{Name: name, Type: fieldType, Options: options}
	for i, f := range b.fields {
		if f.Name == name {
			b.fields[i] = field
			return b
		}
	}
	b.fields = append(b.fields, field)
	return b
}

func (b *Builder) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

func (b *Builder) Get(name string) (*Field, bool) {
	for _, f := range b.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (b *Builder) Fields() []*Field {
	out := make([]*Field, len(b.fields))
	copy(out, b.fields)
	return out
}

// SetData replaces the form's prefilled data
func (b *Builder) SetData(data map[string]interface{}) *Builder {
	b.data = make(map[string]interface{}, len(data))
	for k, v := range data {
		b.data[k] = v
	}
	return b
}

func (b *Builder) Data() map[string]interface{} {
	out := make(map[string]interface{}, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}

func (b *Builder) MarshalJSON() ([]byte, error) {
	fields := b.fields
	if fields == nil {
		fields = []*Field{}
	}
	return json.Marshal(struct {
		Name   string                 `json:"name"`
		Fields []*Field               `json:"fields"`
		Data   map[string]interface{} `json:"data"`
	}{b.name, fields, b.data})
}
