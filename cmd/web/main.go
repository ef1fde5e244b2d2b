package main

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/server"
	"github.com/edu-tools/report-atlas/pkg/services/config"
	"github.com/edu-tools/report-atlas/pkg/services/logo"
	"github.com/edu-tools/report-atlas/pkg/services/report"
	"github.com/edu-tools/report-atlas/pkg/store/client"
	"github.com/edu-tools/report-atlas/pkg/store/duckdb"
	"github.com/edu-tools/report-atlas/pkg/store/duckdb/history"
)

var (
	credentialsPath string
	settingsPath    string
	profileName     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the report engine web server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.report-atlas/credentials", usr.HomeDir)

	rootCmd.Flags().StringVarP(&credentialsPath, "credentials", "c", defaultPath,
		"Path to the credentials file (default is $HOME/.report-atlas/credentials)")
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to the settings file (defaults apply when omitted)")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "default",
		"Credentials profile to use")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	registry, err := config.NewRegistry(credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	profile, err := registry.GetProfile(ctx, profileName)
	if err != nil {
		return fmt.Errorf("failed to resolve profile: %w", err)
	}
	logger.Info().Str("profile", profile.Name).Str("host", profile.Host).
		Msg("admin API profile loaded")

	apiClient := client.New(client.Config{
		BaseURL: profile.Host,
		Token:   profile.Token,
		LogoURL: settings.LogoURL,
	})

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: settings.DBPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	historyStore, err := history.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	service := report.NewService(report.Deps{
		Client:  apiClient,
		Logo:    logo.NewCache(apiClient),
		History: historyStore,
	})

	addr := net.JoinHostPort(settings.ServerHost, settings.ServerPort)
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Reports: service,
		},
	})

	logger.Info().Str("addr", addr).Msg("starting report engine")
	return api.Start()
}
