package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/cli"
	"github.com/moneer95/photocat/internal/config"
	"github.com/moneer95/photocat/internal/logging"
	"github.com/moneer95/photocat/internal/router"
	"github.com/moneer95/photocat/internal/seed"
	"github.com/moneer95/photocat/internal/storage"
	"github.com/moneer95/photocat/internal/storage/docstore"
	"github.com/moneer95/photocat/internal/storage/file"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "photocat",
		Short:        "Personal photo catalog",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(menuCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, storage.Adapter, error) {
	bootstrapLogger := logging.New(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		return nil, nil, nil, err
	}

	logger := logging.New(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open storage backend", "backend", cfg.Backend, "error", err)
		return nil, nil, nil, err
	}

	return cfg, logger, store, nil
}

func openStore(cfg *config.Config) (storage.Adapter, error) {
	switch cfg.Backend {
	case config.BackendDocstore:
		return docstore.Open(cfg.DBPath)
	default:
		return file.Open(cfg.DataDir)
	}
}

func newService(store storage.Adapter, logger *slog.Logger) catalog.Service {
	return catalog.NewService(catalog.NewRepository(store, logger), logger)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, store, err := setup()
			if err != nil {
				return err
			}
			defer closeStore(logger, store)

			logger.Info("starting server", "addr", cfg.Addr, "backend", cfg.Backend)

			r := router.New(cfg, logger, store, newService(store, logger))
			if err := r.Run(cfg.Addr); err != nil {
				logger.Error("server stopped", "error", err)
				return err
			}
			return nil
		},
	}
}

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive photo management menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, store, err := setup()
			if err != nil {
				return err
			}
			defer closeStore(logger, store)

			menu := cli.New(newService(store, logger), logger, cmd.InOrStdin(), cmd.OutOrStdout())
			return menu.Run(cmd.Context())
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		imagesDir   string
		owner       string
		fixturesDir string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalog from fixtures or a directory of images",
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagesDir == "" && fixturesDir == "" {
				return fmt.Errorf("nothing to do: pass --images or --fixtures")
			}
			if imagesDir != "" && owner == "" {
				return fmt.Errorf("--images requires --owner")
			}

			_, logger, store, err := setup()
			if err != nil {
				return err
			}
			defer closeStore(logger, store)

			importer := seed.NewImporter(store, logger)
			ctx := cmd.Context()

			if fixturesDir != "" {
				if err := importer.LoadFixtures(ctx, fixturesDir); err != nil {
					return err
				}
			}

			if imagesDir != "" {
				imported, err := importer.ImportDir(ctx, imagesDir, catalog.ID(owner))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d photos\n", imported)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images", "", "directory of images to import")
	cmd.Flags().StringVar(&owner, "owner", "", "user id that will own imported photos")
	cmd.Flags().StringVar(&fixturesDir, "fixtures", "", "directory holding photos.json/albums.json/users.json")

	return cmd
}

func closeStore(logger *slog.Logger, store storage.Adapter) {
	if err := store.Close(); err != nil {
		logger.Error("failed to close storage backend", "error", err)
	}
}
