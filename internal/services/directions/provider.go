package directions

import "context"

// TravelMode of a route request. Only driving is supported.
type TravelMode string

const TravelModeDriving TravelMode = "driving"

// Request is a single point-to-point route query
type Request struct {
	Origin      Place
	Destination Place
	Mode        TravelMode
}

// Response is the subset of the Directions API payload the estimator reads.
// Distance and Duration are pointers so a missing field can be told apart
// from a zero value.
type Response struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

type Route struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

type Leg struct {
	Distance     *TextValue `json:"distance"`
	Duration     *TextValue `json:"duration"`
	StartAddress string     `json:"start_address"`
	EndAddress   string     `json:"end_address"`
}

type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// RouteProvider issues one route query. A returned error means the query
// never produced a provider answer (transport, HTTP status, decoding); a
// provider-level failure comes back as a Response with a non-OK Status.
type RouteProvider interface {
	Directions(ctx context.Context, req Request) (*Response, error)
}
