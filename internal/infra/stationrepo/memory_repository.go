package stationrepo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/bikeshare/internal/domain/fleet"
	"github.com/yanqian/bikeshare/internal/domain/rebalancing"
	"github.com/yanqian/bikeshare/internal/domain/station"
)

type bikeRecord struct {
	id          int64
	stationID   *int64
	status      fleet.BikeStatus
	purchasedAt *time.Time
}

// MemoryRepository keeps stations and bikes in memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	areas    map[int64]string
	stations map[int64]station.Station
	bikes    map[int64]bikeRecord
	history  map[int64][]station.StatusPoint
	seq      int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		areas:    make(map[int64]string),
		stations: make(map[int64]station.Station),
		bikes:    make(map[int64]bikeRecord),
		history:  make(map[int64][]station.StatusPoint),
	}
}

// AddArea registers an area.
func (r *MemoryRepository) AddArea(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[id] = name
	r.bumpLocked(id)
}

// AddStation stores a station as given. Bike counts are derived from bikes.
func (r *MemoryRepository) AddStation(st station.Station) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st.AreaName = r.areas[st.AreaID]
	st.BikesAvailable, st.DocksAvailable = 0, 0
	r.stations[st.ID] = st
	r.bumpLocked(st.ID)
}

// DockBikes adds n bikes with the given status at a station.
func (r *MemoryRepository) DockBikes(stationID int64, status fleet.BikeStatus, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < n; i++ {
		r.seq++
		id := stationID
		r.bikes[r.seq] = bikeRecord{id: r.seq, stationID: &id, status: status}
	}
}

// RecordStatus appends an availability observation.
func (r *MemoryRepository) RecordStatus(stationID int64, p station.StatusPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[stationID] = append(r.history[stationID], p)
}

// ListActive implements station.Repository.
func (r *MemoryRepository) ListActive(_ context.Context) ([]station.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(true), nil
}

// GetByID implements station.Repository.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (station.Station, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stations[id]
	if !ok {
		return station.Station{}, false, nil
	}
	st.BikesAvailable = r.dockedLocked(id)
	return st, true, nil
}

// ListHistory implements station.Repository.
func (r *MemoryRepository) ListHistory(_ context.Context, id int64, since time.Time) ([]station.StatusPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []station.StatusPoint
	for _, p := range r.history[id] {
		if !p.SnapshotAt.Before(since) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b station.StatusPoint) int {
		return a.SnapshotAt.Compare(b.SnapshotAt)
	})
	return out, nil
}

// ListDockedBikes implements station.Repository.
func (r *MemoryRepository) ListDockedBikes(_ context.Context, id int64) ([]station.DockedBike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []station.DockedBike
	for _, b := range r.bikes {
		if b.stationID != nil && *b.stationID == id && b.status.Docked() {
			out = append(out, station.DockedBike{ID: b.id, Status: string(b.status), PurchasedAt: b.purchasedAt})
		}
	}
	slices.SortFunc(out, func(a, b station.DockedBike) int { return int(a.ID - b.ID) })
	return out, nil
}

// ListActiveSnapshots implements rebalancing.SnapshotSource.
func (r *MemoryRepository) ListActiveSnapshots(_ context.Context) ([]rebalancing.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stations := r.listLocked(true)
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

// ListStations implements fleet.Repository.
func (r *MemoryRepository) ListStations(_ context.Context) ([]station.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(false), nil
}

// AreaExists implements fleet.Repository.
func (r *MemoryRepository) AreaExists(_ context.Context, areaID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.areas[areaID]
	return ok, nil
}

// StationExists implements fleet.Repository.
func (r *MemoryRepository) StationExists(_ context.Context, stationID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stations[stationID]
	return ok, nil
}

// CreateStation implements fleet.Repository.
func (r *MemoryRepository) CreateStation(_ context.Context, in fleet.NewStation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.stations[r.seq] = station.Station{
		ID:         r.seq,
		AreaID:     in.AreaID,
		AreaName:   r.areas[in.AreaID],
		Name:       in.Name,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		DocksTotal: in.DocksTotal,
		IsActive:   true,
	}
	return r.seq, nil
}

// UpdateStation implements fleet.Repository.
func (r *MemoryRepository) UpdateStation(_ context.Context, id int64, upd fleet.StationUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[id]
	if !ok {
		return false, nil
	}
	st.Name = upd.Name
	st.Latitude = upd.Latitude
	st.Longitude = upd.Longitude
	st.DocksTotal = upd.DocksTotal
	if upd.IsActive != nil {
		st.IsActive = *upd.IsActive
	}
	r.stations[id] = st
	return true, nil
}

// SetStationActive implements fleet.Repository.
func (r *MemoryRepository) SetStationActive(_ context.Context, id int64, active bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[id]
	if !ok {
		return false, nil
	}
	st.IsActive = active
	r.stations[id] = st
	return true, nil
}

// ListBikes implements fleet.Repository.
func (r *MemoryRepository) ListBikes(_ context.Context) ([]fleet.Bike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]fleet.Bike, 0, len(r.bikes))
	for _, b := range r.bikes {
		bike := fleet.Bike{ID: b.id, StationID: b.stationID, Status: b.status, PurchasedAt: b.purchasedAt}
		if b.stationID != nil {
			if st, ok := r.stations[*b.stationID]; ok {
				name, area := st.Name, st.AreaName
				bike.StationName, bike.AreaName = &name, &area
			}
		}
		out = append(out, bike)
	}
	slices.SortFunc(out, func(a, b fleet.Bike) int { return int(a.ID - b.ID) })
	return out, nil
}

// CreateBike implements fleet.Repository.
func (r *MemoryRepository) CreateBike(_ context.Context, in fleet.NewBike) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.bikes[r.seq] = bikeRecord{id: r.seq, stationID: in.StationID, status: in.Status, purchasedAt: in.PurchasedAt}
	return r.seq, nil
}

// UpdateBike implements fleet.Repository.
func (r *MemoryRepository) UpdateBike(_ context.Context, id int64, upd fleet.BikeUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bikes[id]
	if !ok {
		return false, nil
	}
	b.stationID = upd.StationID
	b.status = upd.Status
	r.bikes[id] = b
	return true, nil
}

func (r *MemoryRepository) listLocked(activeOnly bool) []station.Station {
	out := make([]station.Station, 0, len(r.stations))
	for _, st := range r.stations {
		if activeOnly && !st.IsActive {
			continue
		}
		st.BikesAvailable = r.dockedLocked(st.ID)
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b station.Station) int { return int(a.ID - b.ID) })
	return out
}

func (r *MemoryRepository) dockedLocked(stationID int64) int {
	n := 0
	for _, b := range r.bikes {
		if b.stationID != nil && *b.stationID == stationID && b.status.Docked() {
			n++
		}
	}
	return n
}

// bumpLocked keeps generated ids above explicitly seeded ones.
func (r *MemoryRepository) bumpLocked(id int64) {
	if id > r.seq {
		r.seq = id
	}
}

var (
	_ station.Repository         = (*MemoryRepository)(nil)
	_ rebalancing.SnapshotSource = (*MemoryRepository)(nil)
	_ fleet.Repository           = (*MemoryRepository)(nil)
)
