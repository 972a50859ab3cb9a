package directions

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"lawncare-backend/internal/models"
)

// Place is a route endpoint: either coordinates or a free-text address that
// the provider resolves
type Place struct {
	Address  string
	Location *models.Location
}

// Address builds a Place from a free-text address
func Address(address string) Place {
	return Place{Address: address}
}

// At builds a Place from coordinates
func At(lat, lng float64) Place {
	return Place{Location: &models.Location{Lat: lat, Lng: lng}}
}

// IsZero reports whether the place has neither coordinates nor an address
func (p Place) IsZero() bool {
	return p.Location == nil && strings.TrimSpace(p.Address) == ""
}

// String is the provider query form of the place
func (p Place) String() string {
	if p.Location != nil {
		return p.Location.String()
	}
	return strings.TrimSpace(p.Address)
}

// UnmarshalJSON accepts either a JSON string or a {"lat":..,"lng":..} object
func (p *Place) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Place{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Address(s)
		return nil
	}

	var loc struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &loc); err != nil {
		return err
	}
	if loc.Lat == nil || loc.Lng == nil {
		return errors.New("location requires both lat and lng")
	}
	*p = At(*loc.Lat, *loc.Lng)
	return nil
}

func (p Place) MarshalJSON() ([]byte, error) {
	if p.Location != nil {
		return json.Marshal(p.Location)
	}
	return json.Marshal(p.Address)
}
