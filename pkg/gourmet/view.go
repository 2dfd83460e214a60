package gourmet

import "strings"

// ViewRow is one editable row of a View. Delete marks the row for removal
// on the next commit; it never touches the table until then.
type ViewRow struct {
	Record
	Delete bool `json:"delete"`
}

// View is a session-local, optionally filtered, editable projection of a
// TableImage. It is consumed by exactly one commit attempt.
type View struct {
	Query string    `json:"query"`
	Rows  []ViewRow `json:"rows"`
}

// Project builds a View from the image. A non-empty query keeps only rows
// where any stringified field contains it, case-insensitively. Rows are
// copies; editing the view never mutates the image.
func Project(image TableImage, query string) *View {
	view := &View{Query: query}
	q := strings.ToLower(strings.TrimSpace(query))
	for i := range image {
		if q != "" && !rowMatches(&image[i], q) {
			continue
		}
		view.Rows = append(view.Rows, ViewRow{Record: image[i]})
	}
	return view
}

// Filtered reports whether the view was built from a strict subset of the
// table, i.e. whether a commit from it would be destructive.
func (v *View) Filtered() bool {
	return strings.TrimSpace(v.Query) != ""
}

func rowMatches(r *Record, q string) bool {
	for _, field := range r.Fields() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
