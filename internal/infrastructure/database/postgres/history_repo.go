package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenmobile/heatglass/internal/application/history"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/pkg/errors"
)

const (
	insertHistorySQL = `
		INSERT INTO calculation_history (
			id, created_at, kind, spec,
			target_power_w_m2, achieved_power_w_m2,
			resistance_ohm, multiplier, deviation_percent, converged
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	listHistorySQL = `
		SELECT id, created_at, kind, spec,
		       target_power_w_m2, achieved_power_w_m2,
		       resistance_ohm, multiplier, deviation_percent, converged
		FROM calculation_history
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`
)

// HistoryRepository persists calculation records; the panel spec is stored
// as jsonb so schema churn in PanelSpec never needs a column migration.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

var _ history.Repository = (*HistoryRepository)(nil)

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

func (r *HistoryRepository) Save(ctx context.Context, rec *history.Record) error {
	spec, err := json.Marshal(rec.Spec)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode panel spec")
	}

	_, err = r.pool.Exec(ctx, insertHistorySQL,
		rec.ID, rec.CreatedAt, string(rec.Kind), spec,
		rec.TargetPowerWm2, rec.AchievedPowerWm2,
		rec.ResistanceOhm, rec.Multiplier, rec.DeviationPercent, rec.Converged)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert history record")
	}
	return nil
}

func (r *HistoryRepository) List(ctx context.Context, limit, offset int) ([]history.Record, error) {
	rows, err := r.pool.Query(ctx, listHistorySQL, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query history")
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read history rows")
	}
	return out, nil
}

func scanRecord(row pgx.Row) (history.Record, error) {
	var (
		rec      history.Record
		kind     string
		specJSON []byte
	)
	err := row.Scan(&rec.ID, &rec.CreatedAt, &kind, &specJSON,
		&rec.TargetPowerWm2, &rec.AchievedPowerWm2,
		&rec.ResistanceOhm, &rec.Multiplier, &rec.DeviationPercent, &rec.Converged)
	if err != nil {
		return history.Record{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan history record")
	}
	rec.Kind = history.Kind(kind)

	var spec panel.PanelSpec
	if err := json.Unmarshal(specJSON, &spec); err != nil {
		return history.Record{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode panel spec")
	}
	rec.Spec = spec
	return rec, nil
}
