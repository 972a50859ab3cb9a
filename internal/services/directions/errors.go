package directions

import "fmt"

// RoutingError is returned by EstimateRoute for every failure. Status is the
// classified outcome; RawStatus and Message are what the provider sent.
type RoutingError struct {
	Status    RouteStatus
	RawStatus string
	Message   string
	Err       error
}

func (e *RoutingError) Error() string {
	msg := fmt.Sprintf("direction service failed: %s", e.Status)
	if e.RawStatus != "" && e.RawStatus != e.Status.String() {
		msg += fmt.Sprintf(" (%s)", e.RawStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RoutingError) Unwrap() error {
	return e.Err
}
