package directions

import (
	"encoding/json"
	"testing"
)

func TestPlace_UnmarshalJSON(t *testing.T) {
	var body struct {
		Origin      Place `json:"origin"`
		Destination Place `json:"destination"`
	}
	err := json.Unmarshal([]byte(`{"origin":{"lat":38.422,"lng":-77.4083},"destination":"1 Court House Rd"}`), &body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Origin.Location == nil || body.Origin.Location.Lat != 38.422 || body.Origin.Location.Lng != -77.4083 {
		t.Errorf("origin = %+v", body.Origin)
	}
	if body.Destination.Address != "1 Court House Rd" || body.Destination.Location != nil {
		t.Errorf("destination = %+v", body.Destination)
	}
}

func TestPlace_UnmarshalJSONRejectsHalfLocation(t *testing.T) {
	var p Place
	if err := json.Unmarshal([]byte(`{"lat":38.4}`), &p); err == nil {
		t.Fatal("expected error for location without lng")
	}
}

func TestPlace_IsZero(t *testing.T) {
	if !(Place{}).IsZero() {
		t.Error("empty place should be zero")
	}
	if !Address("  ").IsZero() {
		t.Error("blank address should be zero")
	}
	if At(0, 0).IsZero() {
		t.Error("0,0 is a valid coordinate")
	}
}

func TestParseRouteStatus(t *testing.T) {
	for s := StatusOK; s <= StatusUnknownError; s++ {
		if got := ParseRouteStatus(s.String()); got != s {
			t.Errorf("ParseRouteStatus(%q) = %v", s.String(), got)
		}
	}
	if got := ParseRouteStatus(""); got != StatusUnknownError {
		t.Errorf("empty status = %v, want UNKNOWN_ERROR", got)
	}
	if got := ParseRouteStatus("MALFORMED_RESPONSE"); got != StatusUnknownError {
		t.Errorf("local kinds must not parse from provider strings, got %v", got)
	}
}
