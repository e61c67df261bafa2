package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oaiiae/huma-contacts/cli/api"
	"github.com/oaiiae/huma-contacts/cli/logger"
	"github.com/oaiiae/huma-contacts/datastores"
)

const title = "Contacts API"

// Set with -ldflags "-X main.version=... -X main.revision=... -X main.created=...".
var (
	version  = "dev"
	revision = "unknown"
	created  = "unknown"
)

type (
	LoggerOptions   = logger.Options
	DatabaseOptions = datastores.Options
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	api.ServerOptions
	api.RouterOptions
	LoggerOptions
	DatabaseOptions
}

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "err", err)
	}

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.LoggerOptions)
		srv := api.NewServer(&options.ServerOptions, nil, logger.Component(log, "server"))

		var (
			mu        sync.Mutex
			datastore *api.Datastore
		)

		hooks.OnStart(func() {
			ds, err := api.OpenDatastore(context.Background(), &options.DatabaseOptions, log)
			if err != nil {
				log.Error("could not open datastore", "err", err)
				os.Exit(1)
			}
			mu.Lock()
			datastore = ds
			mu.Unlock()

			srv.Handler = api.NewRouter(&options.RouterOptions, title, version, revision, created, ds, logger.Component(log, "http"))
			log.Info("listening", "addr", srv.Addr, "version", version)
			err = srv.ListenAndServe()
			if err != http.ErrServerClosed {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				log.Warn("could not shutdown the server", "err", err)
			}

			mu.Lock()
			defer mu.Unlock()
			if datastore != nil {
				err = datastore.Close()
				if err != nil {
					log.Warn("could not close the datastore", "err", err)
				}
			}
		})
	})

	cli.Root().Use = "contacts"
	cli.Root().Version = version + " (" + revision + ", " + created + ")"
	cli.Root().AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *Options) {
			log := logger.New(&options.LoggerOptions)
			if strings.EqualFold(options.DatabaseDriver, datastores.DriverMemory) {
				log.Info("nothing to migrate with the memory driver")
				return
			}

			db, err := datastores.Open(cmd.Context(), &options.DatabaseOptions, logger.Component(log, "datastore"))
			if err != nil {
				log.Error("could not open database", "err", err)
				os.Exit(1)
			}
			err = db.Migrate(cmd.Context())
			db.Close()
			if err != nil {
				log.Error("could not migrate database", "err", err)
				os.Exit(1)
			}
		}),
	})

	cli.Run()
}
