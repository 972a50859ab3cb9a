package models

import "strconv"

// Location is a geographic point in degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the point as "lat,lng", the form the Google and OpenWeather APIs accept
func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}
