package stationrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
)

// PostgresRepository reads and writes stations and bikes in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// bikes_available counts docked bikes that are rentable or awaiting repair.
const stationSelect = `
	SELECT s.station_id, s.area_id, a.area_name, s.station_name, s.latitude, s.longitude,
	       s.docks_total, s.is_active,
	       (SELECT COUNT(*) FROM bikes b
	        WHERE b.station_id = s.station_id AND b.status IN ('AVAILABLE', 'FAULT'))::int AS bikes_available
	FROM stations s
	JOIN areas a ON a.area_id = s.area_id
`

// ListActive returns active stations ordered by id.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]station.Station, error) {
	return r.queryStations(ctx, stationSelect+` WHERE s.is_active ORDER BY s.station_id`)
}

// ListStations returns all stations ordered by id.
func (r *PostgresRepository) ListStations(ctx context.Context) ([]station.Station, error) {
	return r.queryStations(ctx, stationSelect+` ORDER BY s.station_id`)
}

// GetByID fetches one station.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (station.Station, bool, error) {
	rows, err := r.pool.Query(ctx, stationSelect+` WHERE s.station_id = $1 LIMIT 1`, id)
	if err != nil {
		return station.Station{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return station.Station{}, false, rows.Err()
	}
	st, err := scanStation(rows)
	if err != nil {
		return station.Station{}, false, err
	}
	return st, true, rows.Err()
}

// ListHistory returns observations since the given time, oldest first.
func (r *PostgresRepository) ListHistory(ctx context.Context, id int64, since time.Time) ([]station.StatusPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT snapshot_ts, bikes_available, docks_available
		FROM station_status
		WHERE station_id = $1 AND snapshot_ts >= $2
		ORDER BY snapshot_ts ASC
	`, id, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []station.StatusPoint
	for rows.Next() {
		var p station.StatusPoint
		if err := rows.Scan(&p.SnapshotAt, &p.BikesAvailable, &p.DocksAvailable); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ListDockedBikes returns AVAILABLE and FAULT bikes at the station.
func (r *PostgresRepository) ListDockedBikes(ctx context.Context, id int64) ([]station.DockedBike, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bike_id, status, purchased_at
		FROM bikes
		WHERE station_id = $1 AND status IN ('AVAILABLE', 'FAULT')
		ORDER BY bike_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bikes []station.DockedBike
	for rows.Next() {
		var b station.DockedBike
		if err := rows.Scan(&b.ID, &b.Status, &b.PurchasedAt); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	return bikes, rows.Err()
}

// ListActiveSnapshots feeds the rebalancing engine.
func (r *PostgresRepository) ListActiveSnapshots(ctx context.Context) ([]rebalancing.Snapshot, error) {
	stations, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rebalancing.Snapshot, 0, len(stations))
	for _, st := range stations {
		out = append(out, rebalancing.Snapshot{
			StationID:      st.ID,
			Name:           st.Name,
			DocksTotal:     st.DocksTotal,
			BikesAvailable: rebalancing.Bikes(st.BikesAvailable),
		})
	}
	return out, nil
}

// AreaExists checks the areas table.
func (r *PostgresRepository) AreaExists(ctx context.Context, areaID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM areas WHERE area_id = $1)`, areaID).Scan(&exists)
	return exists, err
}

// StationExists checks the stations table.
func (r *PostgresRepository) StationExists(ctx context.Context, stationID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stations WHERE station_id = $1)`, stationID).Scan(&exists)
	return exists, err
}

// CreateStation inserts an active station.
func (r *PostgresRepository) CreateStation(ctx context.Context, in fleet.NewStation) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stations (area_id, station_name, latitude, longitude, docks_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING station_id
	`, in.AreaID, in.Name, in.Latitude, in.Longitude, in.DocksTotal).Scan(&id)
	return id, err
}

// UpdateStation replaces the mutable fields.
func (r *PostgresRepository) UpdateStation(ctx context.Context, id int64, upd fleet.StationUpdate) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stations
		SET station_name = $2, latitude = $3, longitude = $4, docks_total = $5,
		    is_active = COALESCE($6, is_active)
		WHERE station_id = $1
	`, id, upd.Name, upd.Latitude, upd.Longitude, upd.DocksTotal, upd.IsActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetStationActive toggles the active flag.
func (r *PostgresRepository) SetStationActive(ctx context.Context, id int64, active bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE stations SET is_active = $2 WHERE station_id = $1`, id, active)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListBikes returns every bike with its station and area names.
func (r *PostgresRepository) ListBikes(ctx context.Context) ([]fleet.Bike, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.bike_id, b.station_id, s.station_name, a.area_name, b.status, b.purchased_at
		FROM bikes b
		LEFT JOIN stations s ON s.station_id = b.station_id
		LEFT JOIN areas a ON a.area_id = s.area_id
		ORDER BY b.bike_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bikes []fleet.Bike
	for rows.Next() {
		var (
			b      fleet.Bike
			status string
		)
		if err := rows.Scan(&b.ID, &b.StationID, &b.StationName, &b.AreaName, &status, &b.PurchasedAt); err != nil {
			return nil, err
		}
		b.Status = fleet.BikeStatus(status)
		bikes = append(bikes, b)
	}
	return bikes, rows.Err()
}

// CreateBike inserts a bike.
func (r *PostgresRepository) CreateBike(ctx context.Context, in fleet.NewBike) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bikes (station_id, status, purchased_at)
		VALUES ($1, $2, $3)
		RETURNING bike_id
	`, in.StationID, string(in.Status), in.PurchasedAt).Scan(&id)
	return id, err
}

// UpdateBike moves a bike and sets its status.
func (r *PostgresRepository) UpdateBike(ctx context.Context, id int64, upd fleet.BikeUpdate) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE bikes SET station_id = $2, status = $3 WHERE bike_id = $1`,
		id, upd.StationID, string(upd.Status))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) queryStations(ctx context.Context, sql string, args ...any) ([]station.Station, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stations []station.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (station.Station, error) {
	var st station.Station
	err := row.Scan(
		&st.ID, &st.AreaID, &st.AreaName, &st.Name, &st.Latitude, &st.Longitude,
		&st.DocksTotal, &st.IsActive, &st.BikesAvailable,
	)
	return st, err
}

var (
	_ station.Repository         = (*PostgresRepository)(nil)
	_ rebalancing.SnapshotSource = (*PostgresRepository)(nil)
	_ fleet.Repository           = (*PostgresRepository)(nil)
)
