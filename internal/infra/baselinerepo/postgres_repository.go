package baselinerepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
)

// PostgresRepository implements baseline.Repository using pgx.
type PostgresRepository struct {
	pool           *pgxpool.Pool
	defaultWeekday int
	defaultHour    int
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool, defaultWeekday, defaultHour int) *PostgresRepository {
	return &PostgresRepository{pool: pool, defaultWeekday: defaultWeekday, defaultHour: defaultHour}
}

// GetBaseline fetches the exact (station, dow, hour) entry.
func (r *PostgresRepository) GetBaseline(ctx context.Context, stationID int64, weekday, hour int) (float64, bool, error) {
	return r.queryDemand(ctx, `
		SELECT baseline_demand::float8
		FROM station_baseline
		WHERE station_id = $1 AND dow = $2 AND hour = $3
		LIMIT 1
	`, stationID, weekday, hour)
}

// GetBaselineNearestHour fetches the closest hour on the same weekday.
func (r *PostgresRepository) GetBaselineNearestHour(ctx context.Context, stationID int64, weekday, hour int) (float64, bool, error) {
	return r.queryDemand(ctx, `
		SELECT baseline_demand::float8
		FROM station_baseline
		WHERE station_id = $1 AND dow = $2
		ORDER BY ABS(hour - $3), hour
		LIMIT 1
	`, stationID, weekday, hour)
}

// GetDefaultBaseline fetches the configured default slot.
func (r *PostgresRepository) GetDefaultBaseline(ctx context.Context, stationID int64) (float64, bool, error) {
	return r.GetBaseline(ctx, stationID, r.defaultWeekday, r.defaultHour)
}

// ListDay returns the stored hours of a weekday in ascending order.
func (r *PostgresRepository) ListDay(ctx context.Context, stationID int64, weekday int) ([]baseline.HourlyBaseline, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT hour, baseline_demand::float8
		FROM station_baseline
		WHERE station_id = $1 AND dow = $2
		ORDER BY hour
	`, stationID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []baseline.HourlyBaseline
	for rows.Next() {
		var row baseline.HourlyBaseline
		if err := rows.Scan(&row.Hour, &row.Demand); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) queryDemand(ctx context.Context, sql string, args ...any) (float64, bool, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return 0, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, false, rows.Err()
	}
	var demand float64
	if err := rows.Scan(&demand); err != nil {
		return 0, false, err
	}
	return demand, true, rows.Err()
}

var _ baseline.Repository = (*PostgresRepository)(nil)
