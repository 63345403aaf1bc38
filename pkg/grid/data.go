package grid

import (
	"strconv"
)

// Record is a single grid row keyed by column field
type Record map[string]interface{}

// Uint reads an unsigned integer id from the record regardless of the driver's scan type
func (r Record) Uint(key string) (uint, bool) {
	switch v := r[key].(type) {
	case int:
		return uint(v), v >= 0
	case int32:
		return uint(v), v >= 0
	case int64:
		return uint(v), v >= 0
	case uint:
		return v, true
	case uint32:
		return uint(v), true
	case uint64:
		return uint(v), true
	case float64:
		return uint(v), v >= 0
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return uint(n), err == nil
	case []byte:
		n, err := strconv.ParseUint(string(v), 10, 64)
		return uint(n), err == nil
	}
	return 0, false
}

// Data is one page of grid rows
type Data struct {
	Records      []Record `json:"records"`
	RecordsTotal int64    `json:"records_total"`
}
