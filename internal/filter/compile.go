package filter

import (
	"math"
	"strings"

	"apartment-search/internal/model"
)

const (
	// DefaultHardCap bounds every response, paginated or not.
	DefaultHardCap = 500
	// DefaultPageSize applies when a page is requested without a size.
	DefaultPageSize = 12
)

// Target columns.
const (
	ColName          = "apt_result_apartment_name"
	ColAddress       = "apt_result_address"
	ColState         = "state"
	ColBed           = "apt_result_bed"
	ColBath          = "apt_result_bath"
	ColMinRent       = "apt_result_min_rent"
	ColAvailableDate = "apt_result_available_date_formatted"
)

// Kind selects how a clause tests its columns.
type Kind int

const (
	// Contains matches when any column contains Value, ignoring case.
	Contains Kind = iota
	// Equals matches when the column equals Value exactly.
	Equals
	// NumericPrefix matches when the column's leading digit run equals Value.
	NumericPrefix
)

// Clause is one predicate. Every clause binds exactly one value.
type Clause struct {
	Kind    Kind
	Columns []string
	Value   string
}

// Direction of the sort.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Sort is the resolved ordering. Column is always from the allow-list.
type Sort struct {
	Column    string
	Direction Direction
}

// Plan is a compiled search. Args[i] is bound to Clauses[i].
type Plan struct {
	Clauses []Clause
	Args    []any
	Sort    Sort

	Limit  int
	Offset int

	Page     int
	PageSize int
}

var sortColumns = map[string]string{
	"availabledate":                       ColAvailableDate,
	"available_date":                      ColAvailableDate,
	"apt_result_available_date_formatted": ColAvailableDate,
	"minrent":                             ColMinRent,
	"min_rent":                            ColMinRent,
	"rent":                                ColMinRent,
	"apt_result_min_rent":                 ColMinRent,
	"name":                                ColName,
	"apartmentname":                       ColName,
	"apt_result_apartment_name":           ColName,
}

// Compiler turns criteria into plans under a fixed row cap.
type Compiler struct {
	HardCap         int
	DefaultPageSize int
}

// NewCompiler returns a Compiler, substituting defaults for non-positive
// settings.
func NewCompiler(hardCap, defaultPageSize int) *Compiler {
	if hardCap <= 0 {
		hardCap = DefaultHardCap
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	return &Compiler{
		HardCap:         hardCap,
		DefaultPageSize: min(defaultPageSize, hardCap),
	}
}

var defaultCompiler = NewCompiler(DefaultHardCap, DefaultPageSize)

// Compile uses the default hard cap and page size.
func Compile(c model.FilterCriteria) Plan {
	return defaultCompiler.Compile(c)
}

// Compile never fails; malformed fields are treated as absent.
func (cp *Compiler) Compile(c model.FilterCriteria) Plan {
	p := Plan{Sort: resolveSort(c.SortBy, c.Order)}

	if v := normalizeName(c.Name); v != "" {
		p.add(Clause{Kind: Contains, Columns: []string{ColName, ColAddress}, Value: v})
	}
	if v := normalizeState(c.State); v != "" {
		p.add(Clause{Kind: Equals, Columns: []string{ColState}, Value: v})
	}
	if v := normalizeCount(c.Bed); v != "" {
		p.add(Clause{Kind: NumericPrefix, Columns: []string{ColBed}, Value: v})
	}
	if v := normalizeCount(c.Bath); v != "" {
		p.add(Clause{Kind: NumericPrefix, Columns: []string{ColBath}, Value: v})
	}

	p.Limit, p.Offset, p.Page, p.PageSize = cp.window(c)
	return p
}

func (p *Plan) add(cl Clause) {
	p.Clauses = append(p.Clauses, cl)
	p.Args = append(p.Args, cl.arg())
}

// arg is the value bound to the clause placeholder.
func (cl Clause) arg() any {
	if cl.Kind == Contains {
		return escapeLike(cl.Value)
	}
	return cl.Value
}

func (cp *Compiler) window(c model.FilterCriteria) (limit, offset, page, size int) {
	if !c.Paginated() {
		return cp.HardCap, 0, 0, cp.HardCap
	}

	size = cp.DefaultPageSize
	if c.Size != nil {
		size = *c.Size
	}
	size = max(1, min(size, cp.HardCap))

	if c.Page != nil && *c.Page > 0 {
		page = *c.Page
	}
	// keep page*size inside int32 so every driver accepts the offset
	page = min(page, math.MaxInt32/size)

	return size, page * size, page, size
}

func resolveSort(sortBy, order string) Sort {
	s := Sort{Column: ColAvailableDate, Direction: Asc}
	if col, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortBy))]; ok {
		s.Column = col
	}
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		s.Direction = Desc
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
