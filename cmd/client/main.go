package main

import (
	"fmt"

	"github.com/MKhiriev/vm-console/internal/adapter"
	"github.com/MKhiriev/vm-console/internal/cache"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/internal/client"
	"github.com/MKhiriev/vm-console/internal/config"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/session"
	"github.com/MKhiriev/vm-console/internal/tui"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewConsoleLogger("vm-console-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	transport, err := adapter.NewHTTPInventoryClient(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create inventory transport")
	}

	credentials := session.NewFileCredentialStorage(cfg.Session.CredentialPath)
	sessionStore := session.NewStore(credentials, transport, log)

	pushChannel := channel.New(cfg.Adapter.WSURL, sessionStore, log)
	controller := cache.NewController(transport, sessionStore, log)

	ui := tui.New(sessionStore, controller, pushChannel, log)

	app := client.NewApp(sessionStore, pushChannel, controller, ui, log)
	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
