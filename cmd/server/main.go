package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vm-console/internal/config"
	handler "github.com/MKhiriev/vm-console/internal/handler/http"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/push"
	"github.com/MKhiriev/vm-console/internal/server"
	"github.com/MKhiriev/vm-console/internal/service"
	"github.com/MKhiriev/vm-console/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vm-console-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	db, err := store.Connect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection error")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("database migration error")
	}

	repos := store.NewRepositories(db, log)

	auth := service.NewAuthService(repos.Users, cfg.Auth, log)
	hub := push.NewHub(auth, log)
	services := &service.Services{
		Auth: auth,
		VM:   service.NewVMService(repos.VMs, hub, log),
	}

	if err = services.Auth.EnsureDefaultUsers(ctx); err != nil {
		log.Fatal().Err(err).Msg("error seeding default users")
	}

	go hub.Run(ctx)

	h := handler.NewHandler(services, hub.ServeWS, log)
	srv := server.New(cfg.Server, h.InitRoutes(), log)

	if err = srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server run error")
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
