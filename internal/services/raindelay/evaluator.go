// Package raindelay decides whether a scheduled service should be pushed back
// a day because of the forecast, and persists that decision.
package raindelay

import (
	"fmt"
	"strings"
	"time"

	"lawncare-backend/internal/models"
)

const dateLayout = "2006-01-02"

// severeWeather is matched as a case-insensitive substring of the day's
// primary weather condition
var severeWeather = []string{"thunderstorm", "tornado", "hurricane", "snow", "sleet", "hail"}

// Cause explains a decision
type Cause int

const (
	CauseClear Cause = iota
	CauseNoForecast
	CauseNoMatchingDay
	CauseRain
	CauseSevereWeather
)

func (c Cause) String() string {
	switch c {
	case CauseNoForecast:
		return "no_forecast"
	case CauseNoMatchingDay:
		return "no_matching_day"
	case CauseRain:
		return "rain"
	case CauseSevereWeather:
		return "severe_weather"
	default:
		return "clear"
	}
}

func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CheckRainDelay decides whether svc should move to the next day. It is pure:
// a nil or empty forecast, or no forecast day for the service's date, is a
// no-op rather than an error.
func CheckRainDelay(svc models.ScheduledService, forecast []models.DayForecast) models.DelayDecision {
	decision, _ := Classify(svc, forecast)
	return decision
}

// Classify is CheckRainDelay that also reports why
func Classify(svc models.ScheduledService, forecast []models.DayForecast) (models.DelayDecision, Cause) {
	if len(forecast) == 0 {
		return models.NoDelay(), CauseNoForecast
	}

	day, ok := forecastFor(svc, forecast)
	if !ok {
		return models.NoDelay(), CauseNoMatchingDay
	}

	// rain wins over a severe condition on the same day
	if day.HasRain {
		return delay(svc, "rain in the forecast"), CauseRain
	}
	if IsSevereWeather(day.PrimaryWeather) {
		return delay(svc, fmt.Sprintf("severe weather (%s)", day.PrimaryWeather)), CauseSevereWeather
	}

	return models.NoDelay(), CauseClear
}

// IsSevereWeather reports whether condition contains any severe-weather term
func IsSevereWeather(condition string) bool {
	c := strings.ToLower(condition)
	for _, term := range severeWeather {
		if strings.Contains(c, term) {
			return true
		}
	}
	return false
}

// NextDay moves t forward one calendar day keeping its wall-clock time in
// t's own location. Across a DST change this is 23 or 25 hours.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

func forecastFor(svc models.ScheduledService, forecast []models.DayForecast) (models.DayForecast, bool) {
	date := svc.ScheduledAt.Format(dateLayout)
	for _, day := range forecast {
		if day.Date == date {
			return day, true
		}
	}
	return models.DayForecast{}, false
}

func delay(svc models.ScheduledService, cause string) models.DelayDecision {
	next := NextDay(svc.ScheduledAt)
	return models.DelayDecision{
		IsDelayed:      true,
		NewScheduledAt: &next,
		Reason:         Reason(svc, cause),
	}
}

// Reason is the dispatcher-facing text for a delay
func Reason(svc models.ScheduledService, cause string) string {
	if svc.ServiceType == "" {
		return fmt.Sprintf("Service for %s delayed due to %s", svc.CustomerName, cause)
	}
	return fmt.Sprintf("Service for %s (%s) delayed due to %s", svc.CustomerName, svc.ServiceType, cause)
}
