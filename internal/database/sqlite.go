package database

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"

	"apartment-search/internal/filter"
)

// SQLite folds case for ASCII only. The dialect's contains clause needs the
// same Unicode folding the in-memory matcher applies.
func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(filter.CaseFoldFunc, 1, caseFold); err != nil {
		panic(fmt.Sprintf("register sqlite %s: %v", filter.CaseFoldFunc, err))
	}
}

func caseFold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
