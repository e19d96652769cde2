package model

import "time"

// Listing is one row of apartment_details. Everything except ID is nullable.
type Listing struct {
	ID            int64      `db:"id" json:"id"`
	RefID         *string    `db:"refid" json:"refid"`
	Name          *string    `db:"apt_result_apartment_name" json:"apt_result_apartment_name"`
	Address       *string    `db:"apt_result_address" json:"apt_result_address"`
	UnitNumber    *string    `db:"apt_result_unit_number" json:"apt_result_unit_number"`
	Floorplan     *string    `db:"apt_result_floorplan" json:"apt_result_floorplan"`
	Sqft          *string    `db:"apt_result_sqft" json:"apt_result_sqft"`
	Bed           *string    `db:"apt_result_bed" json:"apt_result_bed"`
	Bath          *string    `db:"apt_result_bath" json:"apt_result_bath"`
	MinRent       *string    `db:"apt_result_min_rent" json:"apt_result_min_rent"`
	MaxRent       *string    `db:"apt_result_max_rent" json:"apt_result_max_rent"`
	AvailableDate *time.Time `db:"apt_result_available_date_formatted" json:"apt_result_available_date_formatted"`
	State         *string    `db:"state" json:"state"`
}

// Columns lists the selected columns in struct order.
var Columns = []string{
	"id",
	"refid",
	"apt_result_apartment_name",
	"apt_result_address",
	"apt_result_unit_number",
	"apt_result_floorplan",
	"apt_result_sqft",
	"apt_result_bed",
	"apt_result_bath",
	"apt_result_min_rent",
	"apt_result_max_rent",
	"apt_result_available_date_formatted",
	"state",
}

// Column returns the value of a text column, or nil when the column is NULL
// or is not a text column.
func (l *Listing) Column(name string) *string {
	if ref := l.ColumnRef(name); ref != nil {
		return *ref
	}
	return nil
}

// ColumnRef returns the field backing a text column.
func (l *Listing) ColumnRef(name string) **string {
	switch name {
	case "refid":
		return &l.RefID
	case "apt_result_apartment_name":
		return &l.Name
	case "apt_result_address":
		return &l.Address
	case "apt_result_unit_number":
		return &l.UnitNumber
	case "apt_result_floorplan":
		return &l.Floorplan
	case "apt_result_sqft":
		return &l.Sqft
	case "apt_result_bed":
		return &l.Bed
	case "apt_result_bath":
		return &l.Bath
	case "apt_result_min_rent":
		return &l.MinRent
	case "apt_result_max_rent":
		return &l.MaxRent
	case "state":
		return &l.State
	}
	return nil
}

// Str is a helper for building optional string fields.
func Str(s string) *string { return &s }

// Date is a helper for building optional dates in YYYY-MM-DD form.
func Date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
