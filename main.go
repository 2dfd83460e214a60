package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"gourmetmap/pkg/api"
	"gourmetmap/pkg/config"
	"gourmetmap/pkg/gourmet"
	"gourmetmap/pkg/sheets"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configPath := flag.String("config", "gourmetmap.toml", "Path to the config file")

	flag.Parse()
	if *verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

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
	if err := store.EnsureSheetExists(ctx); err != nil {
		log.Fatalf("Failed to prepare sheet: %v", err)
	}

	geocoder := gourmet.NewNominatim(cfg.Store.Geocoder.Region, cfg.Store.Geocoder.Locality)
	geocoder.BaseURL = cfg.Store.Geocoder.BaseURL
	geocoder.UserAgent = cfg.Store.Geocoder.UserAgent
	geocoder.Client = &http.Client{
		Timeout: time.Duration(cfg.Store.Geocoder.TimeoutSeconds) * time.Second,
	}

	router := api.GetRouter(api.New(store, geocoder, cfg.Store.App.Password))
	go startServer(router, cfg.Store.App.ListenAddress)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

mainloop:
	// In all cases, just exit and let the container restart from scratch.
	// There's less to get wrong doing it this way.
	for {
		select {
		case <-signalChan:
			log.Info("Signalled, breaking main loop")
			break mainloop
		}
	}
}

func startServer(router http.Handler, addr string) {
	server := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("ListenAndServeError", err)
	}
}
