package main

import (
	"context"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"gourmetmap/pkg/config"
	"gourmetmap/pkg/gourmet"
	"gourmetmap/pkg/sheets"
)

// Registers one venue from the command line, geocoding the address the
// same way the register form does.
func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configPath := flag.String("config", "gourmetmap.toml", "Path to the config file")
	name := flag.String("name", "", "Venue name (required)")
	genre := flag.String("genre", "", "Genre (default: other)")
	area := flag.String("area", "", "Area (default: other)")
	rating := flag.Int("rating", 3, "Rating 1-5")
	note := flag.String("note", "", "Free-text note")
	address := flag.String("address", "", "Address or landmark keyword")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if *name == "" {
		log.Error("You must specify a venue name with -name")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.New(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	store, err := sheets.NewClient(
		ctx,
		cfg.Store.Sheet.CredentialsFile,
		cfg.Store.Sheet.SpreadsheetID,
		cfg.Store.Sheet.SheetName,
	)
	if err != nil {
		log.Fatalf("Failed to create sheet client: %v", err)
	}

	geocoder := gourmet.NewNominatim(cfg.Store.Geocoder.Region, cfg.Store.Geocoder.Locality)
	geocoder.BaseURL = cfg.Store.Geocoder.BaseURL
	geocoder.UserAgent = cfg.Store.Geocoder.UserAgent

	appender := gourmet.NewAppender(store, geocoder)
	result, err := appender.Append(ctx, gourmet.FormInput{
		Name:    *name,
		Genre:   *genre,
		Area:    *area,
		Rating:  *rating,
		Note:    *note,
		Address: *address,
	})
	if err != nil {
		log.Fatalf("Failed to register venue: %v", err)
	}

	if result.ResolvedLabel != "" {
		log.Infof("Location found: %s", result.ResolvedLabel)
	}
	if result.Warning != "" {
		log.Warnf("Location lookup failed: %s", result.Warning)
	}
	log.Infof("Registered %q", result.Record.Name)
}
