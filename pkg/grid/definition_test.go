package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnIDs(cc *ColumnCollection) []string {
	var ids []string
	for _, c := range cc.All() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestColumnCollectionAddAfter(t *testing.T) {
	cc := &ColumnCollection{}
	cc.Add(NewDataColumn("id")).Add(NewDataColumn("optin")).Add(NewDataColumn("date"))

	cc.AddAfter("optin", NewToggleColumn("flag"))
	assert.Equal(t, []string{"id", "optin", "flag", "date"}, columnIDs(cc))

	t.Run("missing anchor appends", func(t *testing.T) {
		cc.AddAfter("missing", NewDataColumn("tail"))
		assert.Equal(t, []string{"id", "optin", "flag", "date", "tail"}, columnIDs(cc))
	})

	t.Run("re-adding moves the column", func(t *testing.T) {
		cc.AddAfter("id", NewToggleColumn("flag"))
		assert.Equal(t, []string{"id", "flag", "optin", "date", "tail"}, columnIDs(cc))
	})
}

func TestColumnCollectionAddReplacesSameID(t *testing.T) {
	cc := &ColumnCollection{}
	cc.Add(NewDataColumn("id")).Add(NewDataColumn("id").SetName("Identifier"))

	require.Len(t, cc.All(), 1)
	col, ok := cc.Get("id")
	require.True(t, ok)
	assert.Equal(t, "Identifier", col.Name)
}

func TestFilterCollection(t *testing.T) {
	fc := &FilterCollection{}
	fc.Add(NewFilter("flag", FilterTypeText))
	fc.Add(NewFilter("flag", FilterTypeYesNo).SetAssociatedColumn("flag"))

	require.Len(t, fc.All(), 1)
	f, ok := fc.Get("flag")
	require.True(t, ok)
	assert.Equal(t, FilterTypeYesNo, f.Type)
	assert.Equal(t, "flag", f.AssociatedColumn)

	_, ok = fc.Get("other")
	assert.False(t, ok)
}

func TestDefinitionMarshalJSON(t *testing.T) {
	def := NewDefinition("order", "Orders")
	def.Columns().Add(NewToggleColumn("flag").SetOptions(map[string]interface{}{"route": "toggle"}))

	raw, err := json.Marshal(def)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "order",
		"name": "Orders",
		"columns": [{"id": "flag", "name": "flag", "type": "toggle", "options": {"route": "toggle"}}],
		"filters": []
	}`, string(raw))
}

func TestRecordUint(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint
		ok    bool
	}{
		{"int64", int64(42), 42, true},
		{"int32", int32(7), 7, true},
		{"float", float64(9), 9, true},
		{"string", "12", 12, true},
		{"bytes", []byte("13"), 13, true},
		{"negative", int64(-1), 0, false},
		{"garbage", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Record{"id": tc.value}.Uint("id")
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
