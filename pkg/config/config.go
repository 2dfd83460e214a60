package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"gourmetmap/pkg/gourmet"
)

type SheetConfig struct {
	// Path to the service account JSON key file.
	CredentialsFile string `toml:"credentials_file"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	SheetName       string `toml:"sheet_name"`
}

type GeocoderConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	// Region and Locality qualify ambiguous free-text addresses on the
	// geocode retry, e.g. "Tokyo" / "Tachikawa".
	Region         string `toml:"region"`
	Locality       string `toml:"locality"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type AppConfig struct {
	ListenAddress string `toml:"listen_address"`
	// Password gates every table operation. Empty disables the gate.
	Password string `toml:"password"`
}

type configStore struct {
	Sheet    SheetConfig    `toml:"sheet"`
	Geocoder GeocoderConfig `toml:"geocoder"`
	App      AppConfig      `toml:"app"`
}

type Config struct {
	Filename string
	Store    configStore
}

// Write the current config out to a toml file.
func (c *Config) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Filename, b, 0644)
}

// Load the current config from a toml file.
func (c *Config) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, &c.Store)
}

// New loads the config file, creating it with defaults on first run.
// Credentials path and spreadsheet ID fall back to the conventional env
// vars when the file leaves them empty.
func New(filename string) (*Config, error) {
	c := &Config{
		Filename: filename,
	}
	if err := c.Load(); err != nil {
		if os.IsNotExist(err) {
			if err := c.Save(); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	// Set some defaults
	if c.Store.Sheet.CredentialsFile == "" {
		c.Store.Sheet.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.Store.Sheet.SpreadsheetID == "" {
		c.Store.Sheet.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	}
	if c.Store.Sheet.SheetName == "" {
		c.Store.Sheet.SheetName = "venues"
	}
	if c.Store.Geocoder.BaseURL == "" {
		c.Store.Geocoder.BaseURL = gourmet.NominatimBaseURL
	}
	if c.Store.Geocoder.UserAgent == "" {
		c.Store.Geocoder.UserAgent = "gourmetmap"
	}
	if c.Store.Geocoder.Region == "" {
		c.Store.Geocoder.Region = "Tokyo"
	}
	if c.Store.Geocoder.Locality == "" {
		c.Store.Geocoder.Locality = "Tachikawa"
	}
	if c.Store.Geocoder.TimeoutSeconds == 0 {
		c.Store.Geocoder.TimeoutSeconds = 10
	}
	if c.Store.App.ListenAddress == "" {
		c.Store.App.ListenAddress = ":8080"
	}
	if c.Store.App.Password == "" {
		c.Store.App.Password = os.Getenv("APP_PASSWORD")
	}
	return c, nil
}
