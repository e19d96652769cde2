package model

// Source names reported to clients.
const (
	SourceDB     = "db"
	SourceSample = "sample"
)

// FilterCriteria is the normalized search input. Empty strings and nil
// pointers mean the field was not supplied.
type FilterCriteria struct {
	Name  string
	State string
	Bed   string
	Bath  string

	Page *int
	Size *int

	SortBy string
	Order  string
}

// Paginated reports whether the caller asked for a specific page.
func (c FilterCriteria) Paginated() bool {
	return c.Page != nil || c.Size != nil
}

// ResultPage is one window of search results.
type ResultPage struct {
	Rows       []Listing `json:"rows"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	Source     string    `json:"source"`
}

// NewResultPage fills in TotalPages from the count and page size.
func NewResultPage(rows []Listing, total, page, pageSize int, source string) *ResultPage {
	if rows == nil {
		rows = []Listing{}
	}
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return &ResultPage{
		Rows:       rows,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		Source:     source,
	}
}
