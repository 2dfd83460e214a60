package gourmet

import (
	"fmt"
	"strconv"
	"strings"
)

// CreatedAtFormat is the timestamp layout stamped on new records. Assigned
// once at append time and never user-editable afterwards.
const CreatedAtFormat = "2006-01-02 15:04"

const (
	GenreOther = "other"
	AreaOther  = "other"
)

// Genres is the closed set of venue genres.
var Genres = []string{
	"washoku",
	"western",
	"chinese",
	"italian",
	"ramen",
	"cafe",
	"izakaya",
	GenreOther,
}

// Areas is the closed set of station areas.
var Areas = []string{
	"north-exit",
	"south-exit",
	"green-springs",
	"lalaport",
	"station-inner",
	AreaOther,
}

// Record is one venue row. Latitude/Longitude are nil when the venue has
// no map placement.
type Record struct {
	Name      string   `json:"name"`
	Genre     string   `json:"genre"`
	Area      string   `json:"area"`
	Rating    int      `json:"rating"`
	Note      string   `json:"note"`
	Address   string   `json:"address"`
	CreatedAt string   `json:"createdAt"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TableImage is the full ordered record set believed to represent the
// sheet's current contents. It is the unit of commit: the store offers no
// row-level update.
type TableImage []Record

// HasCoordinates reports whether the record can be placed on the map.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Validate checks the record against the field rules. row is reported in
// the error; pass -1 for form input.
func (r *Record) Validate(row int) error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Row: row, Field: "name", Message: "must not be empty"}
	}
	if !contains(Genres, r.Genre) {
		return &ValidationError{Row: row, Field: "genre", Message: fmt.Sprintf("unknown genre %q", r.Genre)}
	}
	if !contains(Areas, r.Area) {
		return &ValidationError{Row: row, Field: "area", Message: fmt.Sprintf("unknown area %q", r.Area)}
	}
	if r.Rating < 1 || r.Rating > 5 {
		return &ValidationError{Row: row, Field: "rating", Message: fmt.Sprintf("must be between 1 and 5, got %d", r.Rating)}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Fields returns every attribute stringified, in canonical order. Used by
// the view filter, which matches across all cells like the original
// whole-row search.
func (r *Record) Fields() []string {
	return []string{
		r.Name,
		r.Genre,
		r.Area,
		strconv.Itoa(r.Rating),
		r.Note,
		r.Address,
		r.CreatedAt,
		floatCell(r.Latitude),
		floatCell(r.Longitude),
	}
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
