/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dc0d/onexit"
	"github.com/spf13/cobra"

	"github.com/iambriccardo/distribuito/internal/api"
	"github.com/iambriccardo/distribuito/internal/config"
	"github.com/iambriccardo/distribuito/internal/logging"
	"github.com/iambriccardo/distribuito/internal/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "distribuito",
	Short: "distribuito - a distributed columnar table store",
	Long: `distribuito stores append-only columnar tables and answers
create/insert/query requests, fanning work out to peer nodes when run
as a master.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.json (defaults to $CONFIG_PATH or $HOME/.distribuito/config.json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	logging.Init(logging.Config{
		Level:      logging.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start this node's HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		backend, err := openBackend(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open storage backend: %w", err)
		}

		state := api.NewDatabaseState(cfg, backend)

		mux := http.NewServeMux()
		state.Routes(mux)

		server := &http.Server{
			Addr:    cfg.DatabaseIPPort,
			Handler: mux,
		}

		onexit.Register(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		})

		errCh := make(chan error, 1)
		go func() {
			logging.Logger.Info().
				Str("addr", cfg.DatabaseIPPort).
				Str("role", string(cfg.InstanceRole)).
				Str("table", cfg.DatabaseName).
				Msg("listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			logging.Logger.Info().Msg("shutting down")
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

// openBackend picks the storage backend from DatabasePath's scheme: an
// "s3://bucket/prefix" URL selects S3Backend, anything else is a local
// directory path for FileBackend.
func openBackend(databasePath string) (storage.Backend, error) {
	u, err := url.Parse(databasePath)
	if err != nil || u.Scheme != "s3" {
		return storage.NewFileBackend(databasePath), nil
	}

	prefix := u.Path
	if len(prefix) > 0 && prefix[0] == '/' {
		prefix = prefix[1:]
	}
	backend := storage.NewS3Backend(u.Host, prefix)
	if region := u.Query().Get("region"); region != "" {
		backend.Region = region
	}
	if endpoint := u.Query().Get("endpoint"); endpoint != "" {
		backend.Endpoint = endpoint
		backend.ForcePathStyle = true
	}
	return backend, nil
}
