package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"apartment-search/internal/filter"
	"apartment-search/internal/model"
)

// SampleRepository serves a fixed in-memory data set with the same plan
// semantics as ListingRepository. It is safe for concurrent use because the
// rows are never modified after construction.
type SampleRepository struct {
	rows []model.Listing
}

func NewSampleRepository(rows []model.Listing) *SampleRepository {
	return &SampleRepository{rows: append([]model.Listing(nil), rows...)}
}

func (r *SampleRepository) Find(_ context.Context, plan filter.Plan) ([]model.Listing, error) {
	page, _ := plan.Apply(r.rows)
	return page, nil
}

func (r *SampleRepository) Count(_ context.Context, plan filter.Plan) (int, error) {
	_, total := plan.Apply(r.rows)
	return total, nil
}

func (r *SampleRepository) GetByID(_ context.Context, id int64) (*model.Listing, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			l := r.rows[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

// Len is the number of rows held.
func (r *SampleRepository) Len() int { return len(r.rows) }

// DefaultSampleRows is served when no database is reachable and no sample
// file is configured.
func DefaultSampleRows() []model.Listing {
	s, d := model.Str, model.Date
	return []model.Listing{
		{ID: 1, RefID: s("REF1001"), Name: s("Sample Towers"), Address: s("123 Example St"), UnitNumber: s("4B"),
			Floorplan: s("B1"), Sqft: s("950"), Bed: s("2 Bed"), Bath: s("1 Bath"),
			MinRent: s("$1,450"), MaxRent: s("$1,600"), AvailableDate: d("2024-06-01"), State: s("TX")},
		{ID: 2, RefID: s("REF1002"), Name: s("Example Heights"), Address: s("456 Example Ave"), UnitNumber: s("210"),
			Floorplan: s("C2"), Sqft: s("1240"), Bed: s("3 Bed"), Bath: s("2 Bath"),
			MinRent: s("$1,900"), MaxRent: s("$2,150"), AvailableDate: d("2024-05-15"), State: s("TX")},
		{ID: 3, RefID: s("REF1003"), Name: s("Oakwood Apartments"), Address: s("88 Harbor Blvd"), UnitNumber: s("12"),
			Floorplan: s("A1"), Sqft: s("700"), Bed: s("1 Bed"), Bath: s("1 Bath"),
			MinRent: s("$1,100"), MaxRent: s("$1,175"), AvailableDate: d("2024-07-01"), State: s("CA")},
		{ID: 4, RefID: s("REF1004"), Name: s("The Birches"), Address: s("12 Oak St"), UnitNumber: s("3"),
			Floorplan: s("B2"), Sqft: s("1010"), Bed: s("2 Bed"), Bath: s("2 Bath"),
			MinRent: s("$2,300"), MaxRent: s("$2,450"), AvailableDate: d("2024-05-20"), State: s("CA")},
		{ID: 5, RefID: s("REF1005"), Name: s("Maple Court"), Address: s("9 Elm Ave"), UnitNumber: s("1A"),
			Floorplan: s("S"), Sqft: s("480"), Bed: s("Studio"), Bath: s("1 Bath"),
			MinRent: s("$900"), MaxRent: s("$950"), State: s("TX")},
		{ID: 6, RefID: s("REF1006"), Name: s("Riverside Lofts"), Address: s("700 River Rd"), UnitNumber: s("PH2"),
			Floorplan: s("D1"), Sqft: s("1850"), Bed: s("4 Bed"), Bath: s("3 Bath"),
			MinRent: s("$3,400"), MaxRent: s("$3,800"), AvailableDate: d("2024-08-10"), State: s("NY")},
		{ID: 7, RefID: s("REF1007"), Name: s("Cedar Point"), Address: s("31 Lakeview Dr"), UnitNumber: s("508"),
			Floorplan: s("B3"), Sqft: s("1005"), Bed: s("2 Bed"), Bath: s("2 Bath"),
			MinRent: s("$1,750"), AvailableDate: d("2024-06-15"), State: s("FL")},
		{ID: 8, RefID: s("REF1008"), Address: s("5 Unnamed Way"), Bed: s("1 Bed"), Bath: s("1 Bath"), State: s("NY")},
	}
}

// LoadSampleCSV reads listings from a CSV file whose header row uses the
// apartment_details column names. Empty cells become NULL.
func LoadSampleCSV(path string) ([]model.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSampleCSV: %w", err)
	}
	defer f.Close()

	rows, err := ReadSampleCSV(f)
	if err != nil {
		return nil, fmt.Errorf("LoadSampleCSV %q: %w", path, err)
	}
	return rows, nil
}

// ReadSampleCSV parses the format described on LoadSampleCSV.
func ReadSampleCSV(r io.Reader) ([]model.Listing, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	if _, ok := index["id"]; !ok {
		return nil, errors.New(`header has no "id" column`)
	}

	var out []model.Listing
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cell := func(col string) *string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return nil
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				return &v
			}
			return nil
		}

		idCell := cell("id")
		if idCell == nil {
			return nil, fmt.Errorf("line %d: empty id", line)
		}
		id, err := strconv.ParseInt(*idCell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: id: %w", line, err)
		}

		l := model.Listing{ID: id}
		for _, col := range model.Columns {
			if p := l.ColumnRef(col); p != nil {
				*p = cell(col)
			}
		}
		if v := cell("apt_result_available_date_formatted"); v != nil {
			l.AvailableDate = model.Date(*v)
		}
		out = append(out, l)
	}
	return out, nil
}
