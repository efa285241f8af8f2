// Package dateformats is the persistence module for supported date format
// reference data. It validates candidate records against a declared shape,
// persists them in the SQLite record store, and notifies the docket audit
// sink about every public operation.
package dateformats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/evolvus/dateformats/adapters/docket"
	sqliteadapter "github.com/evolvus/dateformats/adapters/sqlite"
	"github.com/evolvus/dateformats/adapters/sqlite/gormsqlite"
	"github.com/evolvus/dateformats/migrations"
	"github.com/evolvus/dateformats/ports"
	"github.com/evolvus/dateformats/schema"
	"github.com/evolvus/dateformats/usecase"
)

// DocketConfig points at the audit sink. An empty URL selects the log-only
// publisher.
type DocketConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type Config struct {
	DBPath        string
	Docket        DocketConfig
	Application   string
	Actor         string
	ClientAddress string
	AuditQueue    int
}

// Module is the assembled library: the service facade plus the repository for
// callers that need the test/reset surface.
type Module struct {
	Service    *usecase.DateFormatService
	Repository ports.DateFormatRepository

	closer io.Closer
}

func (m *Module) Close() error {
	return m.closer.Close()
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open opens the record store, runs migrations, and assembles the service
// with its audit emitter. The returned module must be closed to stop the
// emitter and release the store.
func Open(ctx context.Context, cfg Config) (*Module, error) {
	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, err
	}

	validator, err := schema.NewValidator()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var sink ports.AuditPublisher
	if cfg.Docket.URL != "" {
		sink = docket.NewClient(cfg.Docket.URL, cfg.Docket.Secret, cfg.Docket.Timeout)
	} else {
		sink = docket.NewLogPublisher()
	}
	emitter := usecase.NewAuditEmitter(sink, cfg.AuditQueue, cfg.Docket.Timeout)
	emitter.Start(context.Background())

	repo := sqliteadapter.NewRepository(db)
	service := usecase.NewDateFormatService(usecase.Config{
		Application:   cfg.Application,
		Actor:         cfg.Actor,
		ClientAddress: cfg.ClientAddress,
	}, validator, repo, emitter)

	return &Module{
		Service:    service,
		Repository: repo,
		closer:     resourceCloser{closers: []io.Closer{emitter, db}},
	}, nil
}
