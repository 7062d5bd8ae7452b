package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

var queryCreateSchema = `
create schema if not exists :SCHEMA
`

var queryCreateTable = `
create table if not exists :SCHEMA.flags (
	key text primary key,
	value text not null,
	created_at timestamptz not null default now(),
	updated_at timestamptz
)
`

var queryReadFlag = `
select value
from :SCHEMA.flags
where key = $1
`

var queryUpsertFlag = `
insert into :SCHEMA.flags (key, value)
values ($1, $2)
on conflict (key) do update set
	value = excluded.value,
	updated_at = now()
`

var _ pluginapi.Store = &PostgresStore{}

type PostgresStore struct {
	client *sql.DB
	schema string

	migrateMutex sync.Mutex
	migrated     bool
}

type postgresStoreOption func(*PostgresStore)

func WithPostgresStoreSchema(schema string) postgresStoreOption {
	return func(s *PostgresStore) {
		s.schema = schema
	}
}

func NewPostgresStore(client *sql.DB, opts ...postgresStoreOption) *PostgresStore {
	s := &PostgresStore{client: client, schema: "public"}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("key", key).Msg("get value from postgres")

	if err := s.migrate(ctx); err != nil {
		return "", err
	}

	var value string
	err := s.client.QueryRowContext(ctx, s.query(queryReadFlag), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", pluginapi.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value string) error {
	zerolog.Ctx(ctx).Debug().Str("key", key).Str("value", value).Msg("store value in postgres")

	if err := s.migrate(ctx); err != nil {
		return err
	}

	_, err := s.client.ExecContext(ctx, s.query(queryUpsertFlag), key, value)
	return err
}

func (s *PostgresStore) Close() error {
	return s.client.Close()
}

// migrate creates the schema and table on first use. A failed attempt is
// retried by the next call.
func (s *PostgresStore) migrate(ctx context.Context) error {
	s.migrateMutex.Lock()
	defer s.migrateMutex.Unlock()

	if s.migrated {
		return nil
	}

	for _, q := range []string{queryCreateSchema, queryCreateTable} {
		if _, err := s.client.ExecContext(ctx, s.query(q)); err != nil {
			return err
		}
	}

	s.migrated = true
	return nil
}

func (s *PostgresStore) query(q string) string {
	return strings.ReplaceAll(q, ":SCHEMA", s.schema)
}
