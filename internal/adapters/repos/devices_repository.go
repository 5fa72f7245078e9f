package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	devicesTable      = "devices"
	deviceEventsTable = "device_events"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	deviceColumns = []string{
		"id", "serial_number", "asset_tag", "device_model", "assigned_user",
		"enrolled", "locked", "locked_by", "locked_at", "created_at", "updated_at",
	}
)

type (
	// PoolOps is the subset of pgxpool.Pool the repository needs.
	PoolOps interface {
		execer
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Begin(ctx context.Context) (pgx.Tx, error)
		Ping(ctx context.Context) error
	}

	// execer is satisfied by both the pool and a pgx.Tx.
	execer interface {
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	}

	// Scanner maps rows onto structs.
	Scanner interface {
		ScanOne(dst any, rows pgx.Rows) error
		IsNotFound(err error) bool
	}

	PgxScanner struct{}

	// DevicesRepository persists loaner devices and their audit events in Postgres.
	DevicesRepository struct {
		pool    PoolOps
		scanner Scanner
		logger  logger.Logger
	}

	deviceRow struct {
		ID           string     `db:"id"`
		SerialNumber string     `db:"serial_number"`
		AssetTag     string     `db:"asset_tag"`
		DeviceModel  string     `db:"device_model"`
		AssignedUser string     `db:"assigned_user"`
		Enrolled     bool       `db:"enrolled"`
		Locked       bool       `db:"locked"`
		LockedBy     string     `db:"locked_by"`
		LockedAt     *time.Time `db:"locked_at"`
		CreatedAt    time.Time  `db:"created_at"`
		UpdatedAt    time.Time  `db:"updated_at"`
	}
)

func NewPgxScanner() PgxScanner {
	return PgxScanner{}
}

func (PgxScanner) ScanOne(dst any, rows pgx.Rows) error {
	return pgxscan.ScanOne(dst, rows)
}

func (PgxScanner) IsNotFound(err error) bool {
	return pgxscan.NotFound(err)
}

func NewDevicesRepository(pool PoolOps, scanner Scanner, log logger.Logger) *DevicesRepository {
	return &DevicesRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

func (r *DevicesRepository) FetchByID(ctx context.Context, id model.DeviceID) (*model.Device, error) {
	return r.fetchOne(ctx, sq.Eq{"id": id.String()})
}

func (r *DevicesRepository) FetchBySerialNumber(ctx context.Context, serialNumber string) (*model.Device, error) {
	return r.fetchOne(ctx, sq.Eq{"serial_number": serialNumber})
}

func (r *DevicesRepository) Update(ctx context.Context, device *model.Device) error {
	return r.update(ctx, r.pool, device)
}

func (r *DevicesRepository) RecordEvent(ctx context.Context, event model.DeviceEvent) error {
	return r.recordEvent(ctx, r.pool, event)
}

// LockDevice writes the locked device and its audit event in one transaction.
// Either both rows land or neither does.
func (r *DevicesRepository) LockDevice(ctx context.Context, device *model.Device, event model.DeviceEvent) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := r.update(ctx, tx, device); err != nil {
			return err
		}

		return r.recordEvent(ctx, tx, event)
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, model.ErrDeviceNotFound) || errors.Is(err, model.ErrDatabaseQuery) {
		return err
	}

	return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
}

func (r *DevicesRepository) update(ctx context.Context, db execer, device *model.Device) error {
	query, args, err := psql.Update(devicesTable).
		Set("assigned_user", device.AssignedUser).
		Set("enrolled", device.Enrolled).
		Set("locked", device.Locked).
		Set("locked_by", device.LockedBy).
		Set("locked_at", device.LockedAt).
		Set("updated_at", device.UpdatedAt).
		Where(sq.Eq{"id": device.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDeviceNotFound
	}

	return nil
}

func (r *DevicesRepository) recordEvent(ctx context.Context, db execer, event model.DeviceEvent) error {
	query, args, err := psql.Insert(deviceEventsTable).
		Columns("id", "device_id", "action", "actor", "message", "created_at").
		Values(
			event.ID.String(),
			event.DeviceID.String(),
			event.Action,
			event.Actor,
			event.Message,
			event.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).Warn().
			Err(err).
			Str("device_id", event.DeviceID.String()).
			Str("action", event.Action).
			Msg("failed to record device event")

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func (r *DevicesRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseConnection, err)
	}

	return nil
}

func (r *DevicesRepository) fetchOne(ctx context.Context, criteria sq.Sqlizer) (*model.Device, error) {
	query, args, err := psql.Select(deviceColumns...).
		From(devicesTable).
		Where(criteria).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var row deviceRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return row.toDevice()
}

func (row deviceRow) toDevice() (*model.Device, error) {
	id, err := model.ParseDeviceID(row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse device ID: %w", err)
	}

	return &model.Device{
		ID:           id,
		SerialNumber: row.SerialNumber,
		AssetTag:     row.AssetTag,
		DeviceModel:  row.DeviceModel,
		AssignedUser: row.AssignedUser,
		Enrolled:     row.Enrolled,
		Locked:       row.Locked,
		LockedBy:     row.LockedBy,
		LockedAt:     row.LockedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
