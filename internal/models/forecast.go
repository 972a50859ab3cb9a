package models

import "time"

// ForecastEntry is one 3-hour slot of a provider forecast
type ForecastEntry struct {
	Time          string  `json:"time"`
	Temp          int     `json:"temp"`
	FeelsLike     int     `json:"feels_like"`
	Weather       string  `json:"weather"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	WindSpeed     int     `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
	Humidity      int     `json:"humidity"`
	Dt            int64   `json:"dt"`
}

// DayForecast summarizes one calendar date of the forecast.
// Date ("2006-01-02") is the join key against a service's scheduled date.
type DayForecast struct {
	Date           string          `json:"date"`
	Day            string          `json:"day"`
	Forecasts      []ForecastEntry `json:"forecasts,omitempty"`
	MinTemp        int             `json:"min_temp"`
	MaxTemp        int             `json:"max_temp"`
	HasRain        bool            `json:"has_rain"`
	PrimaryWeather string          `json:"primary_weather"`
	Icon           string          `json:"icon"`
}

// WeatherCache is the document stored in business_profiles.weather_cache
type WeatherCache struct {
	Updated  time.Time     `json:"updated"`
	Location string        `json:"location"`
	Country  string        `json:"country"`
	Days     []DayForecast `json:"days"`
}
