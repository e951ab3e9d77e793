package globals

import (
	"context"
	"database/sql"
	"sync"

	"class-notifier/internal/components/chrono"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/config"
	"class-notifier/internal/db"
	"class-notifier/internal/notifier"
	"class-notifier/internal/notify"
	"class-notifier/internal/registry"
	"class-notifier/internal/timetable"
)

type key struct{}

// Value holds what every subcommand shares. The database is only opened by the
// subcommands that ask for it.
type Value struct {
	Config config.Config
	Clock  chrono.API
	Tel    telemetry.API

	once     sync.Once
	openErr  error
	sqldb    *sql.DB
	registry registry.Registry
	service  *notifier.Service
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}

func (v *Value) open(ctx context.Context) error {
	v.once.Do(func() {
		sqldb, err := db.Open(ctx, v.Config.Database)
		if err != nil {
			v.openErr = err
			return
		}
		v.sqldb = sqldb
		v.registry = registry.New(sqldb, v.Tel)
		v.service = notifier.NewService(
			v.registry,
			timetable.NewClient(v.Config.ClientOptions(), v.Tel),
			notify.NewNtfyClient(v.Config.NtfyOptions(), v.Tel),
			v.Clock,
			v.Config.NotifierOptions(),
			notifier.WithTelemetry(v.Tel),
		)
	})
	return v.openErr
}

func (v *Value) Registry(ctx context.Context) (registry.Registry, error) {
	err := v.open(ctx)
	return v.registry, err
}

func (v *Value) Service(ctx context.Context) (*notifier.Service, error) {
	err := v.open(ctx)
	return v.service, err
}

// Close closes the database if it was opened.
func (v *Value) Close() error {
	if v.sqldb == nil {
		return nil
	}
	return v.sqldb.Close()
}
