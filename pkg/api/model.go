package api

import (
	"fmt"

	"gourmetmap/pkg/gourmet"
)

const gmapURLPrefix = "https://www.google.com/maps/search/?api=1&query="

// noteSnippetLen caps the note text shown in a marker popup.
const noteSnippetLen = 20

// Marker is one map pin: the popup contents for a venue with coordinates.
type Marker struct {
	Name      string  `json:"name"`
	Genre     string  `json:"genre"`
	Area      string  `json:"area"`
	Note      string  `json:"note"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	MapsURL   string  `json:"mapsUrl"`
}

func markerFor(r *gourmet.Record) (Marker, bool) {
	if !r.HasCoordinates() {
		return Marker{}, false
	}
	return Marker{
		Name:      r.Name,
		Genre:     r.Genre,
		Area:      r.Area,
		Note:      noteSnippet(r.Note),
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		MapsURL:   fmt.Sprintf("%s%v,%v", gmapURLPrefix, *r.Latitude, *r.Longitude),
	}, true
}

func noteSnippet(note string) string {
	runes := []rune(note)
	if len(runes) <= noteSnippetLen {
		return note
	}
	return string(runes[:noteSnippetLen]) + "..."
}
