package gourmet

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// FormInput is one register-form submission. Latitude/Longitude are
// manual coordinates; when absent and Address is set, the geocoder fills
// them in.
type FormInput struct {
	Name      string   `json:"name"`
	Genre     string   `json:"genre"`
	Area      string   `json:"area"`
	Rating    int      `json:"rating"`
	Note      string   `json:"note"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AppendResult carries the stored record plus the geocoder outcome:
// ResolvedLabel on a hit, Warning text on a non-fatal geocode fault.
type AppendResult struct {
	Record        Record `json:"record"`
	ResolvedLabel string `json:"resolvedLabel,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// Appender builds one new canonically ordered row and submits it via the
// store's append primitive. Appends never touch existing rows.
type Appender struct {
	store    Store
	geocoder Geocoder
	now      func() time.Time
}

func NewAppender(store Store, geocoder Geocoder) *Appender {
	return &Appender{store: store, geocoder: geocoder, now: time.Now}
}

// GeocodeTimeout bounds a single append's geocoder call. Timeout counts
// as a service fault, not a failed append.
const GeocodeTimeout = 15 * time.Second

// Append validates the form, stamps createdAt, optionally geocodes the
// address and appends the record. Validation failures issue no store or
// geocoder call at all.
func (a *Appender) Append(ctx context.Context, in FormInput) (*AppendResult, error) {
	rec := Record{
		Name:      strings.TrimSpace(in.Name),
		Genre:     in.Genre,
		Area:      in.Area,
		Rating:    in.Rating,
		Note:      in.Note,
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if rec.Genre == "" {
		rec.Genre = GenreOther
	}
	if rec.Area == "" {
		rec.Area = AreaOther
	}
	if rec.Rating == 0 {
		rec.Rating = 3
	}
	if err := rec.Validate(-1); err != nil {
		return nil, err
	}
	rec.CreatedAt = a.now().Format(CreatedAtFormat)

	result := &AppendResult{}
	if !rec.HasCoordinates() && rec.Address != "" {
		gctx, cancel := context.WithTimeout(ctx, GeocodeTimeout)
		loc, err := a.geocoder.Resolve(gctx, rec.Address)
		cancel()
		switch {
		case err == nil && loc != nil:
			rec.Latitude = &loc.Latitude
			rec.Longitude = &loc.Longitude
			result.ResolvedLabel = loc.Label
		case errors.Is(err, ErrGeocodeNotFound):
			// The venue just goes in without map placement.
			log.Debugf("no location found for %q", rec.Address)
		case err != nil:
			log.Warnf("geocode failed for %q: %v", rec.Address, err)
			result.Warning = err.Error()
		}
	}

	row := recordRow(&rec)
	if err := a.store.AppendRow(ctx, row); err != nil {
		return nil, err
	}
	log.Infof("registered %q", rec.Name)
	result.Record = rec
	return result, nil
}
