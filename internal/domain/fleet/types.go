package fleet

import "time"

// BikeStatus is the lifecycle state of a bike.
type BikeStatus string

const (
	BikeAvailable   BikeStatus = "AVAILABLE"
	BikeInUse       BikeStatus = "IN_USE"
	BikeFault       BikeStatus = "FAULT"
	BikeMaintenance BikeStatus = "MAINTENANCE"
)

// Docked reports whether a bike in this status counts toward station availability.
func (s BikeStatus) Docked() bool {
	return s == BikeAvailable || s == BikeFault
}

// Bike is the admin view of a bike. Station fields are nil for bikes in transit.
type Bike struct {
	ID          int64      `json:"bike_id"`
	StationID   *int64     `json:"station_id"`
	StationName *string    `json:"station_name"`
	AreaName    *string    `json:"area_name"`
	Status      BikeStatus `json:"status"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

// NewStation is the payload for creating a station.
type NewStation struct {
	AreaID     int64   `json:"areaId" validate:"required,gt=0"`
	Name       string  `json:"stationName" validate:"required,max=100"`
	Latitude   float64 `json:"latitude" validate:"required,latitude"`
	Longitude  float64 `json:"longitude" validate:"required,longitude"`
	DocksTotal int     `json:"docksTotal" validate:"gte=0"`
}

// StationUpdate replaces the mutable station fields.
type StationUpdate struct {
	Name       string  `json:"stationName" validate:"required,max=100"`
	Latitude   float64 `json:"latitude" validate:"required,latitude"`
	Longitude  float64 `json:"longitude" validate:"required,longitude"`
	DocksTotal int     `json:"docksTotal" validate:"gte=0"`
	IsActive   *bool   `json:"isActive" validate:"required"`
}

// NewBike is the payload for registering a bike. Status defaults to AVAILABLE.
type NewBike struct {
	StationID   *int64     `json:"stationId" validate:"omitempty,gt=0"`
	Status      BikeStatus `json:"status" validate:"omitempty,oneof=AVAILABLE IN_USE FAULT MAINTENANCE"`
	PurchasedAt *time.Time `json:"purchasedAt"`
}

// BikeUpdate moves a bike and/or changes its status. A nil station undocks it.
type BikeUpdate struct {
	StationID *int64     `json:"stationId" validate:"omitempty,gt=0"`
	Status    BikeStatus `json:"status" validate:"required,oneof=AVAILABLE IN_USE FAULT MAINTENANCE"`
}
