package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/edu-tools/report-atlas/pkg/runtime/terminal"
	"github.com/edu-tools/report-atlas/pkg/services/config"
	"github.com/edu-tools/report-atlas/pkg/services/logo"
	"github.com/edu-tools/report-atlas/pkg/services/report"
	"github.com/edu-tools/report-atlas/pkg/store/client"
	"github.com/edu-tools/report-atlas/pkg/store/duckdb"
	"github.com/edu-tools/report-atlas/pkg/store/duckdb/history"
)

func main() {
	service, err := buildService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Service: service,
		Input:   os.Stdin,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildService() (*report.Service, error) {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	settings, err := config.LoadSettings(os.Getenv("REPORT_ATLAS_SETTINGS"))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	credentialsPath := os.Getenv("REPORT_ATLAS_CREDENTIALS")
	if credentialsPath == "" {
		usr, usrErr := user.Current()
		if usrErr != nil {
			return nil, fmt.Errorf("failed to locate credentials: %w", usrErr)
		}
		credentialsPath = fmt.Sprintf("%s/.report-atlas/credentials", usr.HomeDir)
	}

	profileName := os.Getenv("REPORT_ATLAS_PROFILE")
	if profileName == "" {
		profileName = "default"
	}

	registry, err := config.NewRegistry(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	profile, err := registry.GetProfile(logger.WithContext(context.Background()), profileName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	apiClient := client.New(client.Config{
		BaseURL: profile.Host,
		Token:   profile.Token,
		LogoURL: settings.LogoURL,
	})

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: settings.DBPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	historyStore, err := history.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}

	return report.NewService(report.Deps{
		Client:  apiClient,
		Logo:    logo.NewCache(apiClient),
		History: historyStore,
	}), nil
}
