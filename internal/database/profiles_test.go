package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var profileColumns = []string{"id", "business_name", "address", "weather_cache", "updated_at"}

func TestGetBusinessProfile_NoneIsNil(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("FROM business_profiles").WillReturnRows(sqlmock.NewRows(profileColumns))

	profile, err := store.GetBusinessProfile(context.Background())
	if err != nil || profile != nil {
		t.Fatalf("profile = %+v, err = %v", profile, err)
	}
}

func TestLatestForecast_DecodesCache(t *testing.T) {
	store, mock := newMock(t)

	cache := `{"updated":"2023-05-15T12:00:00Z","location":"Stafford","country":"US","days":[
		{"date":"2023-05-15","day":"Monday","forecasts":[],"min_temp":60,"max_temp":75,"has_rain":true,"primary_weather":"Rain","icon":"10d"}
	]}`
	mock.ExpectQuery("FROM business_profiles").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow("bp-1", "Green Acres", "1 Main St", []byte(cache), time.Now()),
	)

	days, err := store.LatestForecast(context.Background())
	if err != nil {
		t.Fatalf("LatestForecast: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2023-05-15" || !days[0].HasRain {
		t.Errorf("days = %+v", days)
	}
}

func TestLatestForecast_EmptyCache(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("FROM business_profiles").WillReturnRows(
		sqlmock.NewRows(profileColumns).AddRow("bp-1", "Green Acres", nil, nil, time.Now()),
	)

	days, err := store.LatestForecast(context.Background())
	if err != nil || days != nil {
		t.Fatalf("days = %+v, err = %v", days, err)
	}
}

func TestSaveWeatherCache(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("UPDATE business_profiles SET weather_cache").
		WithArgs(sqlmock.AnyArg(), "bp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SaveWeatherCache(context.Background(), "bp-1", nil); err != nil {
		t.Fatalf("SaveWeatherCache: %v", err)
	}
}
