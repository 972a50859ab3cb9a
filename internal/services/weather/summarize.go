// Package weather keeps the business's 3-day forecast cache fresh. The cached
// days are what the rain-delay evaluator joins services against.
package weather

import (
	"math"
	"strings"
	"time"

	"lawncare-backend/internal/models"
)

// ForecastDays is how far ahead the cache reaches
const ForecastDays = 3

// Summarize groups 3-hour forecast slots into calendar days in loc, keeping
// slots up to ForecastDays after now. It returns nil for an empty forecast.
func Summarize(resp *ForecastResponse, now time.Time, loc *time.Location) *models.WeatherCache {
	if resp == nil || len(resp.List) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	cutoff := now.AddDate(0, 0, ForecastDays)
	var days []models.DayForecast
	index := make(map[string]int)

	for _, item := range resp.List {
		at := time.Unix(item.Dt, 0).In(loc)
		if at.After(cutoff) {
			continue
		}

		date := at.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, models.DayForecast{Date: date, Day: at.Format("Monday")})
		}
		days[i].Forecasts = append(days[i].Forecasts, entryFrom(item, at))
	}

	for i := range days {
		summarizeDay(&days[i], loc)
	}

	cache := &models.WeatherCache{
		Updated:  now.UTC(),
		Location: orUnknown(resp.City.Name),
		Country:  orUnknown(resp.City.Country),
		Days:     days,
	}
	if cache.Days == nil {
		cache.Days = []models.DayForecast{}
	}
	return cache
}

func entryFrom(item ForecastItem, at time.Time) models.ForecastEntry {
	e := models.ForecastEntry{
		Time:      at.Format("3 PM"),
		Temp:      int(math.Round(item.Main.Temp)),
		FeelsLike: int(math.Round(item.Main.FeelsLike)),
		WindSpeed: int(math.Round(item.Wind.Speed)),
		Humidity:  item.Main.Humidity,
		Dt:        item.Dt,
	}
	if len(item.Weather) > 0 {
		e.Weather = item.Weather[0].Main
		e.Description = item.Weather[0].Description
		e.Icon = item.Weather[0].Icon
	}
	if item.Rain != nil {
		e.Precipitation = math.Round(item.Rain.ThreeHour*100) / 100
	}
	return e
}

func summarizeDay(day *models.DayForecast, loc *time.Location) {
	entries := day.Forecasts
	counts := make(map[string]int)
	var order []string

	day.MinTemp, day.MaxTemp = entries[0].Temp, entries[0].Temp
	for _, e := range entries {
		day.MinTemp = min(day.MinTemp, e.Temp)
		day.MaxTemp = max(day.MaxTemp, e.Temp)

		if isRainy(e) {
			day.HasRain = true
		}

		if _, seen := counts[e.Weather]; !seen {
			order = append(order, e.Weather)
		}
		counts[e.Weather]++
	}

	// most common condition, first seen wins a tie
	for _, w := range order {
		if counts[w] > counts[day.PrimaryWeather] || day.PrimaryWeather == "" {
			day.PrimaryWeather = w
		}
	}

	day.Icon = representative(entries, loc).Icon
}

func isRainy(e models.ForecastEntry) bool {
	return strings.Contains(strings.ToLower(e.Weather), "rain") ||
		strings.Contains(strings.ToLower(e.Description), "rain") ||
		e.Precipitation > 0
}

// representative picks the midday slot (12:00 or 13:00 local), else the middle one
func representative(entries []models.ForecastEntry, loc *time.Location) models.ForecastEntry {
	for _, e := range entries {
		h := time.Unix(e.Dt, 0).In(loc).Hour()
		if h == 12 || h == 13 {
			return e
		}
	}
	return entries[len(entries)/2]
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
