package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ErrInvalidFilter is returned by query modifiers given a filter value they cannot interpret
var ErrInvalidFilter = errors.New("invalid grid filter value")

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchCriteria carries the user's paging, sorting and filter choices for a grid
type SearchCriteria struct {
	OrderBy   string
	SortOrder string
	Limit     int
	Offset    int
	Filters   map[string]string
}

// Direction returns the SQL keyword for SortOrder, defaulting to ASC
func (sc SearchCriteria) Direction() string {
	if strings.EqualFold(sc.SortOrder, SortDesc) {
		return "DESC"
	}
	return "ASC"
}

// Query is the search query builder handed to grid query modifiers.
// Modifiers may add select expressions, joins, conditions and orderings.
type Query struct {
	db      *gorm.DB
	selects []string
	orders  []string
}

// NewQuery starts a query on an already scoped *gorm.DB (table and context set)
func NewQuery(db *gorm.DB, selects ...string) *Query {
	return &Query{db: db, selects: append([]string(nil), selects...)}
}

func (q *Query) AddSelect(expr string) *Query {
	q.selects = append(q.selects, expr)
	return q
}

func (q *Query) LeftJoin(table, alias, on string) *Query {
	q.db = q.db.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s", table, alias, on))
	return q
}

func (q *Query) AndWhere(cond string, args ...interface{}) *Query {
	q.db = q.db.Where(cond, args...)
	return q
}

// OrderBy appends an ordering; direction must be ASC or DESC
func (q *Query) OrderBy(expr, direction string) *Query {
	if !strings.EqualFold(direction, "DESC") {
		direction = "ASC"
	}
	q.orders = append(q.orders, expr+" "+strings.ToUpper(direction))
	return q
}

func (q *Query) HasOrder() bool { return len(q.orders) > 0 }

func (q *Query) Selects() []string { return append([]string(nil), q.selects...) }

// Count returns the number of rows matched, ignoring paging and ordering
func (q *Query) Count() (int64, error) {
	var total int64
	sub := q.db.Session(&gorm.Session{}).Select(strings.Join(q.selects, ", "))
	err := q.db.Session(&gorm.Session{NewDB: true}).Table("(?) AS grid_count", sub).Count(&total).Error
	return total, err
}

// Fetch runs the query and returns one Record per row
func (q *Query) Fetch(limit, offset int) ([]Record, error) {
	stmt := q.db.Session(&gorm.Session{}).Select(strings.Join(q.selects, ", "))
	for _, o := range q.orders {
		stmt = stmt.Order(o)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if offset > 0 {
		stmt = stmt.Offset(offset)
	}

	var rows []map[string]interface{}
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record(row))
	}
	return records, nil
}

// ParseBool interprets grid filter values ("1", "0", "true", "yes", ...)
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(value)
}
