package timetable

import (
	"errors"
	"fmt"
	"net/http"
)

// ClassRecord is one row of the portal timetable. The json keys are what the
// browser extension reads.
type ClassRecord struct {
	Period   string `json:"period"`
	Subject  string `json:"class"`
	Location string `json:"location"`
	Teacher  string `json:"teacher"`
}

// CookieField is a single portal session cookie.
type CookieField struct {
	Name  string
	Value string
}

// Credential is the set of portal session cookies of a user, in the order
// they should be sent.
type Credential struct {
	UserID int64
	Fields []CookieField
}

// ErrMissingCredentials is returned when a user has no stored session cookies.
var ErrMissingCredentials = errors.New("missing portal credentials")

// FetchError is any failure to retrieve the timetable page: a transport error, a
// timeout or a non-2xx status. Status is 0 when no response was received.
type FetchError struct {
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch timetable: %s", e.Cause.Error())
	}
	return fmt.Sprintf("fetch timetable: unexpected status %d %s", e.Status, http.StatusText(e.Status))
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
