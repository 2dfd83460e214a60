package gourmet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Columns is the canonical header: every persisted table image has exactly
// these columns in exactly this order. Do not rename these or existing
// sheets will stop matching.
var Columns = []string{
	"name",
	"genre",
	"area",
	"rating",
	"note",
	"address",
	"createdAt",
	"latitude",
	"longitude",
}

// Normalize coerces a raw sheet read (header row + data rows, any column
// order) into a TableImage in canonical order. Unknown columns are
// dropped, missing columns are synthesized empty. An empty or header-only
// sheet yields an empty image.
func Normalize(values [][]interface{}) TableImage {
	if len(values) == 0 {
		return TableImage{}
	}

	// Map canonical column name -> index in the raw header, -1 if absent.
	idx := make(map[string]int, len(Columns))
	for _, col := range Columns {
		idx[col] = -1
	}
	for i, cell := range values[0] {
		name := strings.TrimSpace(cellString(cell))
		if _, known := idx[name]; known {
			idx[name] = i
		}
	}

	image := make(TableImage, 0, len(values)-1)
	for _, raw := range values[1:] {
		get := func(col string) interface{} {
			i := idx[col]
			if i < 0 || i >= len(raw) {
				return nil
			}
			return raw[i]
		}
		image = append(image, Record{
			Name:      cellString(get("name")),
			Genre:     cellString(get("genre")),
			Area:      cellString(get("area")),
			Rating:    cellInt(get("rating")),
			Note:      cellString(get("note")),
			Address:   cellString(get("address")),
			CreatedAt: cellString(get("createdAt")),
			Latitude:  cellFloat(get("latitude")),
			Longitude: cellFloat(get("longitude")),
		})
	}
	return image
}

// Denormalize reorders a TableImage into canonical header + data rows for
// a sheet write. Absent numerics become empty strings, the sheet has no
// null type.
func Denormalize(image TableImage) [][]interface{} {
	values := make([][]interface{}, 0, len(image)+1)
	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	values = append(values, header)
	for i := range image {
		values = append(values, recordRow(&image[i]))
	}
	return values
}

func recordRow(r *Record) []interface{} {
	return []interface{}{
		r.Name,
		r.Genre,
		r.Area,
		ratingCell(r.Rating),
		r.Note,
		r.Address,
		r.CreatedAt,
		coordCell(r.Latitude),
		coordCell(r.Longitude),
	}
}

func ratingCell(rating int) interface{} {
	if rating == 0 {
		return ""
	}
	return rating
}

func coordCell(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		// Sheets returns whole numbers as floats; keep them readable.
		if c == math.Trunc(c) {
			return strconv.FormatFloat(c, 'f', 0, 64)
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

func cellInt(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case int:
		return c
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func cellFloat(v interface{}) *float64 {
	switch c := v.(type) {
	case float64:
		f := c
		return &f
	case int:
		f := float64(c)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
