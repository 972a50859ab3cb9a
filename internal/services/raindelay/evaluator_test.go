package raindelay

import (
	"reflect"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"lawncare-backend/internal/models"
)

func testService() models.ScheduledService {
	return models.ScheduledService{
		ID:           "123",
		ScheduledAt:  time.Date(2023, 5, 15, 10, 0, 0, 0, time.UTC),
		CustomerName: "John Doe",
		ServiceType:  "Lawn Mowing",
	}
}

func day(date string, hasRain bool, weather string) models.DayForecast {
	return models.DayForecast{Date: date, Day: "Monday", HasRain: hasRain, PrimaryWeather: weather}
}

func assertNoDelay(t *testing.T, got models.DelayDecision) {
	t.Helper()
	if got.IsDelayed || got.Reason != "" || got.NewScheduledAt != nil {
		t.Fatalf("decision = %+v, want no delay", got)
	}
}

func TestCheckRainDelay_NoForecast(t *testing.T) {
	assertNoDelay(t, CheckRainDelay(testService(), nil))
	assertNoDelay(t, CheckRainDelay(testService(), []models.DayForecast{}))

	_, cause := Classify(testService(), nil)
	if cause != CauseNoForecast {
		t.Errorf("cause = %v, want no_forecast", cause)
	}
}

func TestCheckRainDelay_RainDelaysOneDaySameTime(t *testing.T) {
	got := CheckRainDelay(testService(), []models.DayForecast{day("2023-05-15", true, "Rain")})

	if !got.IsDelayed {
		t.Fatal("expected delay")
	}
	want := time.Date(2023, 5, 16, 10, 0, 0, 0, time.UTC)
	if got.NewScheduledAt == nil || !got.NewScheduledAt.Equal(want) {
		t.Fatalf("NewScheduledAt = %v, want %v", got.NewScheduledAt, want)
	}
	if got.NewScheduledAt.Format(time.RFC3339) != "2023-05-16T10:00:00Z" {
		t.Errorf("formatted = %s", got.NewScheduledAt.Format(time.RFC3339))
	}
	if !strings.Contains(got.Reason, "rain in the forecast") {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestCheckRainDelay_ReasonNamesCustomerAndService(t *testing.T) {
	got := CheckRainDelay(testService(), []models.DayForecast{day("2023-05-15", true, "Rain")})

	if got.Reason != "Service for John Doe (Lawn Mowing) delayed due to rain in the forecast" {
		t.Errorf("reason = %q", got.Reason)
	}

	svc := testService()
	svc.ServiceType = ""
	got = CheckRainDelay(svc, []models.DayForecast{day("2023-05-15", true, "Rain")})
	if got.Reason != "Service for John Doe delayed due to rain in the forecast" {
		t.Errorf("reason without type = %q", got.Reason)
	}
}

func TestCheckRainDelay_SevereWeatherIncludesCondition(t *testing.T) {
	got := CheckRainDelay(testService(), []models.DayForecast{day("2023-05-15", false, "Thunderstorm")})

	if !got.IsDelayed {
		t.Fatal("expected delay")
	}
	if !strings.Contains(got.Reason, "severe weather") || !strings.Contains(got.Reason, "Thunderstorm") {
		t.Errorf("reason = %q", got.Reason)
	}
	if !strings.Contains(got.Reason, "John Doe") || !strings.Contains(got.Reason, "Lawn Mowing") {
		t.Errorf("reason missing customer or service: %q", got.Reason)
	}
}

func TestCheckRainDelay_SevereVocabulary(t *testing.T) {
	tests := []struct {
		condition string
		delayed   bool
	}{
		{"Thunderstorm", true},
		{"thunderstorm with heavy rain", true},
		{"TORNADO", true},
		{"Hurricane", true},
		{"Snow", true},
		{"Light snow showers", true},
		{"Sleet", true},
		{"Hail", true},
		{"Clear", false},
		{"Clouds", false},
		{"Drizzle", false},
		{"Mist", false},
		{"", false},
	}

	for _, tt := range tests {
		got := CheckRainDelay(testService(), []models.DayForecast{day("2023-05-15", false, tt.condition)})
		if got.IsDelayed != tt.delayed {
			t.Errorf("%q: IsDelayed = %v, want %v", tt.condition, got.IsDelayed, tt.delayed)
		}
		if tt.delayed && !strings.Contains(got.Reason, "severe weather ("+tt.condition+")") {
			t.Errorf("%q: reason = %q", tt.condition, got.Reason)
		}
	}
}

func TestCheckRainDelay_RainTakesPrecedence(t *testing.T) {
	got, cause := Classify(testService(), []models.DayForecast{day("2023-05-15", true, "Thunderstorm")})

	if cause != CauseRain {
		t.Errorf("cause = %v, want rain", cause)
	}
	if !strings.Contains(got.Reason, "rain in the forecast") || strings.Contains(got.Reason, "severe weather") {
		t.Errorf("reason = %q, want the rain branch", got.Reason)
	}
}

func TestCheckRainDelay_ClearDay(t *testing.T) {
	got, cause := Classify(testService(), []models.DayForecast{day("2023-05-15", false, "Clear")})
	assertNoDelay(t, got)
	if cause != CauseClear {
		t.Errorf("cause = %v, want clear", cause)
	}
}

func TestCheckRainDelay_NoMatchingDay(t *testing.T) {
	forecast := []models.DayForecast{
		day("2023-05-14", true, "Rain"),
		day("2023-05-16", true, "Thunderstorm"),
		day("2023-05-17", false, "Snow"),
	}
	got, cause := Classify(testService(), forecast)
	assertNoDelay(t, got)
	if cause != CauseNoMatchingDay {
		t.Errorf("cause = %v, want no_matching_day", cause)
	}
}

func TestCheckRainDelay_DateMatchUsesServiceLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:00 UTC on the 16th is still the evening of the 15th in New York
	svc := testService()
	svc.ScheduledAt = time.Date(2023, 5, 16, 2, 0, 0, 0, time.UTC).In(ny)

	got := CheckRainDelay(svc, []models.DayForecast{day("2023-05-15", true, "Rain")})
	if !got.IsDelayed {
		t.Fatal("expected the New York calendar date to match")
	}

	got = CheckRainDelay(svc, []models.DayForecast{day("2023-05-16", true, "Rain")})
	assertNoDelay(t, got)
}

func TestNextDay_KeepsWallClockAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// clocks spring forward on 2024-03-10
	start := time.Date(2024, 3, 9, 14, 30, 0, 0, ny)
	next := NextDay(start)

	if next.Day() != 10 || next.Hour() != 14 || next.Minute() != 30 {
		t.Errorf("NextDay = %v, want 2024-03-10 14:30 local", next)
	}
	if d := next.Sub(start); d != 23*time.Hour {
		t.Errorf("elapsed = %v, want 23h across spring-forward", d)
	}
}

func TestCheckRainDelay_Idempotent(t *testing.T) {
	svc := testService()
	forecast := []models.DayForecast{
		day("2023-05-15", false, "Hail"),
		day("2023-05-16", true, "Rain"),
	}
	snapshot := append([]models.DayForecast(nil), forecast...)

	first := CheckRainDelay(svc, forecast)
	second := CheckRainDelay(svc, forecast)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	if !reflect.DeepEqual(forecast, snapshot) {
		t.Error("forecast input was mutated")
	}
	if !svc.ScheduledAt.Equal(testService().ScheduledAt) {
		t.Error("service input was mutated")
	}
}

func TestCheckRainDelay_DecisionInvariant(t *testing.T) {
	inputs := [][]models.DayForecast{
		nil,
		{day("2023-05-15", true, "Rain")},
		{day("2023-05-15", false, "Sleet")},
		{day("2023-05-15", false, "Sunny")},
		{day("2023-01-01", true, "Rain")},
	}
	for i, fc := range inputs {
		got := CheckRainDelay(testService(), fc)
		hasReason := got.Reason != ""
		hasDate := got.NewScheduledAt != nil
		if got.IsDelayed != hasReason || got.IsDelayed != hasDate {
			t.Errorf("input %d: inconsistent decision %+v", i, got)
		}
	}
}
