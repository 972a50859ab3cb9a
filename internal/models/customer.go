package models

import "time"

type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	Lat       *float64  `json:"lat" db:"lat"`
	Lng       *float64  `json:"lng" db:"lng"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location returns the customer's coordinates when both are known
func (c *Customer) Location() (Location, bool) {
	if c.Lat == nil || c.Lng == nil {
		return Location{}, false
	}
	return Location{Lat: *c.Lat, Lng: *c.Lng}, true
}

// BusinessProfile is the single business record; its address drives the forecast
type BusinessProfile struct {
	ID           string    `json:"id" db:"id"`
	BusinessName string    `json:"business_name" db:"business_name"`
	Address      *string   `json:"address" db:"address"`
	WeatherCache []byte    `json:"-" db:"weather_cache"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
