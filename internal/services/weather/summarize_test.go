package weather

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func item(at time.Time, main, desc, icon string, temp float64, rain float64) ForecastItem {
	it := ForecastItem{
		Dt:      at.Unix(),
		Main:    ForecastMain{Temp: temp, FeelsLike: temp - 1, Humidity: 60},
		Weather: []ForecastCondition{{Main: main, Description: desc, Icon: icon}},
		Wind:    ForecastWind{Speed: 7.4},
	}
	if rain > 0 {
		it.Rain = &ForecastRain{ThreeHour: rain}
	}
	return it
}

func utc(d, h int) time.Time {
	return time.Date(2023, 5, d, h, 0, 0, 0, time.UTC)
}

func TestSummarize_GroupsByDayWithinThreeDays(t *testing.T) {
	now := utc(15, 0)
	resp := &ForecastResponse{
		City: ForecastCity{Name: "Stafford", Country: "US"},
		List: []ForecastItem{
			item(utc(15, 9), "Clear", "clear sky", "01d", 70.4, 0),
			item(utc(15, 12), "Clouds", "few clouds", "02d", 78.6, 0),
			item(utc(15, 15), "Clear", "clear sky", "01d", 81.2, 0),
			item(utc(16, 0), "Clouds", "overcast clouds", "04n", 60, 0),
			item(utc(16, 9), "Clouds", "broken clouds", "04d", 64, 0.456),
			item(utc(17, 12), "Thunderstorm", "thunderstorm with rain", "11d", 66, 2.1),
			item(utc(19, 12), "Rain", "light rain", "10d", 60, 1),
		},
	}

	cache := Summarize(resp, now, time.UTC)
	if cache == nil {
		t.Fatal("Summarize returned nil")
	}
	if cache.Location != "Stafford" || cache.Country != "US" {
		t.Errorf("location = %s, %s", cache.Location, cache.Country)
	}
	if len(cache.Days) != 3 {
		t.Fatalf("got %d days, want 3 (slots after the cutoff dropped)", len(cache.Days))
	}

	d0 := cache.Days[0]
	if d0.Date != "2023-05-15" || d0.Day != "Monday" {
		t.Errorf("day0 = %s %s", d0.Date, d0.Day)
	}
	if d0.HasRain {
		t.Error("day0 should be dry")
	}
	if d0.PrimaryWeather != "Clear" {
		t.Errorf("day0 primary = %q, want Clear", d0.PrimaryWeather)
	}
	if d0.MinTemp != 70 || d0.MaxTemp != 81 {
		t.Errorf("day0 temps = %d..%d", d0.MinTemp, d0.MaxTemp)
	}
	if d0.Icon != "02d" {
		t.Errorf("day0 icon = %q, want the 12 PM slot", d0.Icon)
	}
	if len(d0.Forecasts) != 3 || d0.Forecasts[1].Time != "12 PM" {
		t.Errorf("day0 entries = %+v", d0.Forecasts)
	}

	d1 := cache.Days[1]
	if !d1.HasRain {
		t.Error("precipitation > 0 should mark the day as rainy")
	}
	if d1.Forecasts[1].Precipitation != 0.46 {
		t.Errorf("precipitation = %v, want rounded to 0.46", d1.Forecasts[1].Precipitation)
	}
	if d1.Icon != "04d" {
		t.Errorf("day1 icon = %q, want middle slot", d1.Icon)
	}

	d2 := cache.Days[2]
	if !d2.HasRain || d2.PrimaryWeather != "Thunderstorm" {
		t.Errorf("day2 = %+v", d2)
	}
}

func TestSummarize_RainInDescription(t *testing.T) {
	resp := &ForecastResponse{List: []ForecastItem{
		item(utc(15, 12), "Drizzle", "light intensity drizzle rain", "09d", 60, 0),
	}}
	cache := Summarize(resp, utc(15, 0), time.UTC)
	if !cache.Days[0].HasRain {
		t.Error("description containing rain should mark the day as rainy")
	}
	if cache.Location != "Unknown" || cache.Country != "Unknown" {
		t.Errorf("missing city should be Unknown, got %s/%s", cache.Location, cache.Country)
	}
}

func TestSummarize_PrimaryWeatherTieGoesToFirstSeen(t *testing.T) {
	resp := &ForecastResponse{List: []ForecastItem{
		item(utc(15, 3), "Clouds", "", "", 60, 0),
		item(utc(15, 6), "Clear", "", "", 60, 0),
		item(utc(15, 9), "Clear", "", "", 60, 0),
		item(utc(15, 12), "Clouds", "", "", 60, 0),
	}}
	cache := Summarize(resp, utc(15, 0), time.UTC)
	if got := cache.Days[0].PrimaryWeather; got != "Clouds" {
		t.Errorf("primary = %q, want Clouds", got)
	}
}

func TestSummarize_UsesBusinessTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:00 UTC on the 16th is 22:00 on the 15th in New York
	resp := &ForecastResponse{List: []ForecastItem{
		item(utc(16, 2), "Rain", "moderate rain", "10n", 58, 1.2),
	}}
	cache := Summarize(resp, utc(15, 0), ny)
	if cache.Days[0].Date != "2023-05-15" {
		t.Errorf("date = %s, want the New York calendar date", cache.Days[0].Date)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if Summarize(nil, time.Now(), time.UTC) != nil {
		t.Error("nil response should summarize to nil")
	}
	if Summarize(&ForecastResponse{}, time.Now(), time.UTC) != nil {
		t.Error("empty list should summarize to nil")
	}
}
