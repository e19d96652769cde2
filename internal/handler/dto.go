package handler

import (
	"strconv"

	"apartment-search/internal/filter"
	"apartment-search/internal/model"
)

const dateLayout = "2006-01-02"

// legacyRow is the flat row shape of /api/results. Beds and Baths are the
// leading numbers of the bed and bath labels, null for labels like "Studio".
type legacyRow struct {
	ID            int64   `json:"id"`
	RefID         *string `json:"refid"`
	Name          *string `json:"apt_result_apartment_name"`
	Address       *string `json:"apt_result_address"`
	UnitNumber    *string `json:"apt_result_unit_number"`
	Floorplan     *string `json:"apt_result_floorplan"`
	Sqft          *string `json:"apt_result_sqft"`
	Bed           *string `json:"apt_result_bed"`
	Bath          *string `json:"apt_result_bath"`
	MinRent       *string `json:"apt_result_min_rent"`
	MaxRent       *string `json:"apt_result_max_rent"`
	AvailableDate *string `json:"apt_result_available_date_formatted"`
	State         *string `json:"state"`
	Beds          *int    `json:"beds"`
	Baths         *int    `json:"bath"`
}

func toLegacyRows(rows []model.Listing) []legacyRow {
	out := make([]legacyRow, len(rows))
	for i, l := range rows {
		out[i] = legacyRow{
			ID:            l.ID,
			RefID:         l.RefID,
			Name:          l.Name,
			Address:       l.Address,
			UnitNumber:    l.UnitNumber,
			Floorplan:     l.Floorplan,
			Sqft:          l.Sqft,
			Bed:           l.Bed,
			Bath:          l.Bath,
			MinRent:       l.MinRent,
			MaxRent:       l.MaxRent,
			AvailableDate: formatDate(l),
			State:         l.State,
			Beds:          leadingInt(l.Bed),
			Baths:         leadingInt(l.Bath),
		}
	}
	return out
}

type apartmentDTO struct {
	ID                     int64   `json:"id"`
	ApartmentName          *string `json:"apartmentName"`
	Address                *string `json:"address"`
	MinRent                *string `json:"minRent"`
	MaxRent                *string `json:"maxRent"`
	Bed                    *string `json:"bed"`
	Bath                   *string `json:"bath"`
	Sqft                   *string `json:"sqft"`
	Floorplan              *string `json:"floorplan"`
	AvailableDateFormatted *string `json:"availableDateFormatted"`
	State                  *string `json:"state"`
}

func newApartmentDTO(l model.Listing) apartmentDTO {
	return apartmentDTO{
		ID:                     l.ID,
		ApartmentName:          l.Name,
		Address:                l.Address,
		MinRent:                l.MinRent,
		MaxRent:                l.MaxRent,
		Bed:                    l.Bed,
		Bath:                   l.Bath,
		Sqft:                   l.Sqft,
		Floorplan:              l.Floorplan,
		AvailableDateFormatted: formatDate(l),
		State:                  l.State,
	}
}

// apartmentPage mirrors the page object the apartment app's clients expect.
type apartmentPage struct {
	Content          []apartmentDTO `json:"content"`
	TotalElements    int            `json:"totalElements"`
	TotalPages       int            `json:"totalPages"`
	Number           int            `json:"number"`
	Size             int            `json:"size"`
	NumberOfElements int            `json:"numberOfElements"`
	First            bool           `json:"first"`
	Last             bool           `json:"last"`
	Empty            bool           `json:"empty"`
	Source           string         `json:"source"`
}

func newApartmentPage(p *model.ResultPage) apartmentPage {
	content := make([]apartmentDTO, len(p.Rows))
	for i, l := range p.Rows {
		content[i] = newApartmentDTO(l)
	}
	return apartmentPage{
		Content:          content,
		TotalElements:    p.TotalCount,
		TotalPages:       p.TotalPages,
		Number:           p.Page,
		Size:             p.PageSize,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page >= p.TotalPages-1,
		Empty:            len(content) == 0,
		Source:           p.Source,
	}
}

func formatDate(l model.Listing) *string {
	if l.AvailableDate == nil {
		return nil
	}
	s := l.AvailableDate.Format(dateLayout)
	return &s
}

func leadingInt(label *string) *int {
	if label == nil {
		return nil
	}
	n, err := strconv.Atoi(filter.LeadingDigits(*label))
	if err != nil {
		return nil
	}
	return &n
}
