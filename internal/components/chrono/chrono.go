package chrono

import "time"

// DefaultTimezone is the timezone the school portal (and its timetable) lives in.
const DefaultTimezone = "Australia/Brisbane"

// API is the interface that anything depending on the system clock should use.
//
// note: fault injection point
type API interface {
	// Now returns the current time in Location().
	Now() time.Time
	Location() *time.Location
}

// StandardImpl is the standard implementation of API using the system clock.
type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl loads the given IANA timezone, an empty name means DefaultTimezone.
func NewStandardImpl(timezone string) (StandardImpl, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant, it is useful for tests that depend
// on the weekday.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}

func (f FixedImpl) Location() *time.Location {
	return f.At.Location()
}
