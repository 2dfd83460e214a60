package gourmet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// Location is a resolved address: coordinates plus the geocoder's display
// label, surfaced to the user so they can spot a wrong match.
type Location struct {
	Latitude  float64
	Longitude float64
	Label     string
}

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	// Resolve returns (nil, nil) for an empty address, ErrGeocodeNotFound
	// when nothing matches, and *GeocodeServiceError on service faults.
	Resolve(ctx context.Context, address string) (*Location, error)
}

// Nominatim is a Geocoder over the openstreetmap search API with a
// locality-qualifier retry: free-text venue names are often ambiguous
// without locality context, so a failed literal query is retried once
// with the region/locality prefixed, unless the input already carries it.
type Nominatim struct {
	BaseURL   string
	UserAgent string // Nominatim requires an identifying User-Agent
	Region    string // e.g. "Tokyo"
	Locality  string // e.g. "Tachikawa"
	Client    *http.Client
}

func NewNominatim(region, locality string) *Nominatim {
	return &Nominatim{
		BaseURL:   NominatimBaseURL,
		UserAgent: "gourmetmap",
		Region:    region,
		Locality:  locality,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Resolve(ctx context.Context, address string) (*Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	loc, err := n.query(ctx, address)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		return loc, nil
	}

	qualified := n.qualify(address)
	if qualified != address {
		log.Debugf("geocode retry with qualified query %q", qualified)
		loc, err = n.query(ctx, qualified)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			return loc, nil
		}
	}
	return nil, ErrGeocodeNotFound
}

// qualify prefixes the locality context the way the search needs it:
// region+locality when the locality is absent, region alone when only the
// region is missing. Already fully qualified input comes back unchanged.
func (n *Nominatim) qualify(address string) string {
	switch {
	case !strings.Contains(address, n.Locality):
		return n.Region + " " + n.Locality + " " + address
	case !strings.Contains(address, n.Region):
		return n.Region + " " + address
	default:
		return address
	}
}

// query performs one search call. nil, nil means no result.
func (n *Nominatim) query(ctx context.Context, q string) (*Location, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &GeocodeServiceError{Query: q, Err: err}
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.client().Do(req)
	if err != nil {
		return nil, &GeocodeServiceError{Query: q, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &GeocodeServiceError{
			Query: q,
			Err:   fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &GeocodeServiceError{Query: q, Err: err}
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, &GeocodeServiceError{Query: q, Err: fmt.Errorf("bad latitude %q", results[0].Lat)}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, &GeocodeServiceError{Query: q, Err: fmt.Errorf("bad longitude %q", results[0].Lon)}
	}
	return &Location{Latitude: lat, Longitude: lon, Label: results[0].DisplayName}, nil
}

func (n *Nominatim) client() *http.Client {
	if n.Client != nil {
		return n.Client
	}
	return http.DefaultClient
}
