package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/oaiiae/huma-contacts/cli/logger"
	"github.com/oaiiae/huma-contacts/datastores"
)

// Datastore is the contacts store selected by [datastores.Options] and
// the hooks the service needs around it.
type Datastore struct {
	Contacts datastores.ContactsStore
	Ping     func(context.Context) error
	Close    func() error
}

// OpenDatastore opens the configured database and applies pending migrations
// when options.DatabaseMigrate is set. The memory driver keeps contacts in
// process and loses them on exit.
func OpenDatastore(ctx context.Context, options *datastores.Options, log *slog.Logger) (*Datastore, error) {
	log = logger.Component(log, "datastore")

	if strings.EqualFold(options.DatabaseDriver, datastores.DriverMemory) {
		log.Warn("contacts are kept in memory")
		return &Datastore{
			Contacts: datastores.NewContactsInmem(),
			Ping:     func(context.Context) error { return nil },
			Close:    func() error { return nil },
		}, nil
	}

	db, err := datastores.Open(ctx, options, log)
	if err != nil {
		return nil, err
	}

	if options.DatabaseMigrate {
		err = db.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Datastore{
		Contacts: datastores.NewContactsGorm(db.DB),
		Ping:     db.Ping,
		Close:    db.Close,
	}, nil
}
