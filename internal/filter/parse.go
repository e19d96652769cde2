package filter

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"apartment-search/internal/model"
)

const (
	maxNameRunes = 100
	maxStateLen  = 8
)

// Parse maps raw request parameters onto FilterCriteria. It accepts any input:
// unknown keys are ignored and malformed values become absent fields.
func Parse(raw map[string]string) model.FilterCriteria {
	return model.FilterCriteria{
		Name:   normalizeName(first(raw, "name", "q")),
		State:  normalizeState(first(raw, "state")),
		Bed:    normalizeCount(first(raw, "bed", "beds")),
		Bath:   normalizeCount(first(raw, "bath", "baths")),
		Page:   parseInt(first(raw, "page")),
		Size:   parseInt(first(raw, "size", "limit")),
		SortBy: first(raw, "sortBy", "sort"),
		Order:  first(raw, "order", "direction"),
	}
}

// ParseValues is Parse for a decoded query string. Only the first value of a
// repeated key is used.
func ParseValues(values url.Values) model.FilterCriteria {
	raw := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			raw[k] = v[0]
		}
	}
	return Parse(raw)
}

// first returns the first non-blank value among keys, in priority order.
func first(raw map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(raw[k]); v != "" {
			return v
		}
	}
	return ""
}

func normalizeName(v string) string {
	v = strings.Map(dropControl, strings.ToValidUTF8(v, ""))
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) > maxNameRunes {
		v = string([]rune(v)[:maxNameRunes])
	}
	return v
}

// dropControl removes control characters. Postgres rejects NUL in text
// parameters.
func dropControl(r rune) rune {
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func normalizeState(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" || len(v) > maxStateLen {
		return ""
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 'A' || v[i] > 'Z' {
			return ""
		}
	}
	return v
}

// normalizeCount accepts a non-negative integer and returns it in canonical
// form ("02" -> "2").
func normalizeCount(v string) string {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(n, 10)
}

func parseInt(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
