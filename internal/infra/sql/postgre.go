package sql

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	_queryTimeout = 5 * time.Second
	_openRetries  = 5
	_retryBackoff = 2 * time.Second
)

func NewPostgreORM(dsn string, timeout time.Duration) (*DB, error) {
	pass, ok := os.LookupEnv("NAMI_SERVER_POSTGRES_PASSWORD")
	if ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return newDB(gormDB, "postgresql", timeout), nil
}

// PostgreDatabase is a raw pgx pool next to the ORM, used for health checks.
type PostgreDatabase struct {
	url  string
	Conn *pgxpool.Pool
}

var _ Database = (*PostgreDatabase)(nil)

func NewPostgreDatabase(url string) *PostgreDatabase {
	return &PostgreDatabase{url: url}
}

func (d *PostgreDatabase) Open(ctx context.Context) error {
	var lastErr error
	for range _openRetries {
		conn, err := pgxpool.New(ctx, d.url)
		if err == nil {
			d.Conn = conn
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(_retryBackoff):
		}
	}

	return fmt.Errorf("imposible to connect to database after %d retries: %w", _openRetries, lastErr)
}

func (d *PostgreDatabase) Close() {
	if d.Conn != nil {
		d.Conn.Close()
	}
}

func (d *PostgreDatabase) Ping(ctx context.Context) error {
	if d.Conn == nil {
		return fmt.Errorf("postgre ping: connection not open")
	}

	pingCtx, cancelFn := context.WithTimeout(ctx, _queryTimeout)
	defer cancelFn()

	if err := d.Conn.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgre ping: %w", err)
	}
	return nil
}
