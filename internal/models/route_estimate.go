package models

// LongDistanceThresholdSeconds is the drive time above which a route is flagged
// for dispatch as long distance (20 minutes)
const LongDistanceThresholdSeconds = 1200

// RouteEstimate is the driving distance/duration between two points
type RouteEstimate struct {
	DistanceText    string `json:"distance_text"`
	DurationText    string `json:"duration_text"`
	DurationSeconds int    `json:"duration_seconds"`
	IsLongDistance  bool   `json:"is_long_distance"`
}

// NewRouteEstimate builds an estimate; IsLongDistance is always derived from durationSeconds
func NewRouteEstimate(distanceText, durationText string, durationSeconds int) RouteEstimate {
	return RouteEstimate{
		DistanceText:    distanceText,
		DurationText:    durationText,
		DurationSeconds: durationSeconds,
		IsLongDistance:  IsLongDistance(durationSeconds),
	}
}

// IsLongDistance reports whether a drive of durationSeconds exceeds the threshold.
// The comparison is strict: exactly 1200 seconds is not long distance.
func IsLongDistance(durationSeconds int) bool {
	return durationSeconds > LongDistanceThresholdSeconds
}
