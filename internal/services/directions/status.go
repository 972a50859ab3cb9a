package directions

// RouteStatus is the closed set of outcomes a route query can have. The
// first group mirrors the Directions API status strings; the last three are
// raised locally.
type RouteStatus int

const (
	StatusOK RouteStatus = iota
	StatusNotFound
	StatusZeroResults
	StatusMaxWaypointsExceeded
	StatusMaxRouteLengthExceeded
	StatusInvalidRequest
	StatusOverDailyLimit
	StatusOverQueryLimit
	StatusRequestDenied
	StatusUnknownError

	StatusInvalidInput
	StatusMalformedResponse
	StatusTransportFailure
)

var statusNames = map[RouteStatus]string{
	StatusOK:                     "OK",
	StatusNotFound:               "NOT_FOUND",
	StatusZeroResults:            "ZERO_RESULTS",
	StatusMaxWaypointsExceeded:   "MAX_WAYPOINTS_EXCEEDED",
	StatusMaxRouteLengthExceeded: "MAX_ROUTE_LENGTH_EXCEEDED",
	StatusInvalidRequest:         "INVALID_REQUEST",
	StatusOverDailyLimit:         "OVER_DAILY_LIMIT",
	StatusOverQueryLimit:         "OVER_QUERY_LIMIT",
	StatusRequestDenied:          "REQUEST_DENIED",
	StatusUnknownError:           "UNKNOWN_ERROR",
	StatusInvalidInput:           "INVALID_INPUT",
	StatusMalformedResponse:      "MALFORMED_RESPONSE",
	StatusTransportFailure:       "TRANSPORT_FAILURE",
}

var statusByName = func() map[string]RouteStatus {
	m := make(map[string]RouteStatus, 10)
	for s := StatusOK; s <= StatusUnknownError; s++ {
		m[statusNames[s]] = s
	}
	return m
}()

// ParseRouteStatus maps a provider status string onto RouteStatus.
// Anything the provider sends that is not recognised is StatusUnknownError.
func ParseRouteStatus(raw string) RouteStatus {
	if s, ok := statusByName[raw]; ok {
		return s
	}
	return StatusUnknownError
}

func (s RouteStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN_ERROR"
}

// IsNoRoute reports whether the status means the provider found no route
// between two valid places (as opposed to a request or service failure)
func (s RouteStatus) IsNoRoute() bool {
	return s == StatusZeroResults || s == StatusNotFound
}
