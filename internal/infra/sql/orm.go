package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// ORM is the chainable subset of gorm the command store relies on. Every
// call returns a new handle, so a query can be built up in steps.
type ORM interface {
	AutoMigrate(dst ...any) error
	Count(count *int64) ORM
	Create(value any) ORM
	Find(dest any, conds ...any) ORM
	First(dest any, conds ...any) ORM
	Limit(limit int) ORM
	Model(value any) ORM
	Order(value any) ORM
	Save(value any) ORM
	Transaction(fc func(tx ORM) error, opts ...*sql.TxOptions) error
	Updates(values any) ORM
	Where(query any, args ...any) ORM
	WithContext(ctx context.Context) ORM
	WithTimeout(ctx context.Context, timeout time.Duration) ORM

	Error() error
	RowsAffected() int64
}

var ErrRecordNotFound = errors.New("record not found")

var _ ORM = (*DB)(nil)

type DB struct {
	*gorm.DB
	migrate bool
	timeout time.Duration
	system  string
}

func newDB(gormDB *gorm.DB, system string, timeout time.Duration) *DB {
	return &DB{DB: gormDB, migrate: true, timeout: timeout, system: system}
}

// with returns a copy of d pointing at tx. Write and read operations name
// themselves so the active span records them.
func (d DB) with(tx *gorm.DB, operation string) ORM {
	if operation != "" {
		d.trace(tx, operation)
	}
	d.DB = tx
	return &d
}

func (d DB) Error() error {
	err := d.DB.Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", d.system, err)
}

func (d DB) RowsAffected() int64 { return d.DB.RowsAffected }

func (d DB) AutoMigrate(dst ...any) error {
	if !d.migrate {
		return nil
	}
	return d.DB.AutoMigrate(dst...)
}

func (d DB) Count(count *int64) ORM { return d.with(d.DB.Count(count), "count") }
func (d DB) Create(value any) ORM { return d.with(d.DB.Create(value), "insert") }
func (d DB) Save(value any) ORM { return d.with(d.DB.Save(value), "upsert") }
func (d DB) Limit(limit int) ORM { return d.with(d.DB.Limit(limit), "") }
func (d DB) Model(value any) ORM { return d.with(d.DB.Model(value), "") }
func (d DB) Order(value any) ORM { return d.with(d.DB.Order(value), "") }
func (d DB) Where(q any, args ...any) ORM { return d.with(d.DB.Where(q, args...), "") }
func (d DB) Find(dest any, c ...any) ORM { return d.with(d.DB.Find(dest, c...), "select") }
func (d DB) First(dest any, c ...any) ORM { return d.with(d.DB.First(dest, c...), "select") }

// Updates writes only the given columns. Paired with a Where on the expected
// version it is a compare-and-swap; RowsAffected tells whether it won.
func (d DB) Updates(values any) ORM { return d.with(d.DB.Updates(values), "update") }

// WithContext applies the configured query timeout, if any.
func (d DB) WithContext(ctx context.Context) ORM {
	if d.timeout > 0 {
		return d.WithTimeout(ctx, d.timeout)
	}
	return d.with(d.DB.WithContext(ctx), "")
}

func (d DB) WithTimeout(ctx context.Context, timeout time.Duration) ORM {
	// The returned ORM outlives this call, so the context is left to expire
	// at its deadline instead of being cancelled here.
	bounded, cancel := context.WithTimeout(ctx, timeout)
	_ = cancel
	return d.with(d.DB.WithContext(bounded), "")
}

func (d DB) Transaction(fc func(ORM) error, opts ...*sql.TxOptions) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		inner := d
		inner.DB = tx
		return fc(&inner)
	}, opts...)
}

func (d DB) trace(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("db.system", d.system),
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", tx.Statement.Table),
	)
}
