package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect renders clauses for one SQL engine. Placeholders are numbered so a
// clause can reference its single bound value more than once.
type Dialect interface {
	Name() string
	Placeholder(n int) string
	ContainsAny(columns []string, ph string) string
	NumericPrefix(column, ph string) string
	// ByteOrder makes a text column sort by byte value, the order
	// strings.Compare uses.
	ByteOrder(column string) string
}

// CaseFoldFunc is the SQL function the SQLite dialect expects to fold text
// the way strings.ToLower does.
const CaseFoldFunc = "casefold"

var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectFor maps a database/sql driver name onto its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return nil, fmt.Errorf("filter: no dialect for driver %q", driver)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) ContainsAny(columns []string, ph string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`%s ILIKE ('%%' || %s || '%%') ESCAPE '\'`, col, ph)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (postgresDialect) NumericPrefix(column, ph string) string {
	return fmt.Sprintf("substring(%s from '^[0-9]+') = %s", column, ph)
}

func (postgresDialect) ByteOrder(column string) string {
	return column + ` COLLATE "C"`
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) Placeholder(n int) string { return "?" + strconv.Itoa(n) }

// SQLite's own LIKE and lower() fold ASCII only, so both sides go through
// CaseFoldFunc, which the database package registers with the driver.
func (sqliteDialect) ContainsAny(columns []string, ph string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`%s(%s) LIKE ('%%' || %s(%s) || '%%') ESCAPE '\'`, CaseFoldFunc, col, CaseFoldFunc, ph)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// BINARY is already SQLite's default collation.
func (sqliteDialect) ByteOrder(column string) string { return column }

// The appended space lets a bare "2" match the same way "2 Bed" does.
func (sqliteDialect) NumericPrefix(column, ph string) string {
	return fmt.Sprintf("(%s || ' ') GLOB (%s || '[^0-9]*')", column, ph)
}

// Where renders the predicate, or "" when the plan has no clauses.
func (p Plan) Where(d Dialect) string {
	if len(p.Clauses) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Clauses))
	for i, cl := range p.Clauses {
		ph := d.Placeholder(i + 1)
		switch cl.Kind {
		case Contains:
			parts = append(parts, d.ContainsAny(cl.Columns, ph))
		case Equals:
			parts = append(parts, cl.Columns[0]+" = "+ph)
		case NumericPrefix:
			parts = append(parts, d.NumericPrefix(cl.Columns[0], ph))
		}
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

// OrderBy keeps NULLs last in both directions and breaks ties on id. Text
// columns sort by bytes so pages line up with Plan.Apply.
func (p Plan) OrderBy(d Dialect) string {
	col := p.Sort.Column
	if col != ColAvailableDate {
		col = d.ByteOrder(col)
	}
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST, id ASC", col, p.Sort.Direction)
}

func (p Plan) LimitClause() string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.Limit, p.Offset)
}
