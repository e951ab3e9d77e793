// Package registry is the store of users and their portal session cookies.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/db"
	"class-notifier/internal/timetable"
)

const (
	report_registry_credential = "registry.credential"
	report_registry_username   = "registry.username"
	report_registry_user_ids   = "registry.user-ids"
	report_registry_add_user   = "registry.add-user"
)

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// StoreError wraps any failure of the underlying database.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s", e.Op, e.Cause.Error())
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ValidationError lists the fields of a NewUser that were missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required parameters: %s", strings.Join(e.Missing, ", "))
}

// NewUser is a user to register along with their portal cookies.
type NewUser struct {
	Username     string `json:"username"`
	CFID         string `json:"CFID"`
	CFTOKEN      string `json:"CFTOKEN"`
	SESSIONID    string `json:"SESSIONID"`
	SESSIONTOKEN string `json:"SESSIONTOKEN"`
}

// Validate returns a *ValidationError naming every empty field.
func (u NewUser) Validate() error {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"username", u.Username},
		{"CFID", u.CFID},
		{"CFTOKEN", u.CFTOKEN},
		{"SESSIONID", u.SESSIONID},
		{"SESSIONTOKEN", u.SESSIONTOKEN},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

type User = db.User

// Registry is the sqlite/libsql backed user store.
type Registry struct {
	db     *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
}

func New(sqldb *sql.DB, tel telemetry.API) Registry {
	assert.NotNil(sqldb, "db")
	assert.NotNil(tel, "telemetry")

	return Registry{
		db:     sqldb,
		qry:    db.New(sqldb),
		makeTx: db.NewMakeTx(sqldb),
		tel:    telemetry.NewScopedAPI("registry", tel),
	}
}

// Credential returns the user's cookies in the order CFID, CFTOKEN, SESSIONID,
// SESSIONTOKEN. A user without cookies (or an unknown user) yields
// timetable.ErrMissingCredentials.
func (r Registry) Credential(ctx context.Context, userID int64) (timetable.Credential, error) {
	cookie, err := r.qry.GetCookies(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return timetable.Credential{}, timetable.ErrMissingCredentials
	}
	if err != nil {
		r.tel.ReportBroken(report_registry_credential, err, userID)
		return timetable.Credential{}, &StoreError{Op: "credential", Cause: err}
	}

	return timetable.Credential{
		UserID: userID,
		Fields: []timetable.CookieField{
			{Name: "CFID", Value: cookie.Cfid},
			{Name: "CFTOKEN", Value: cookie.Cftoken},
			{Name: "SESSIONID", Value: cookie.Sessionid},
			{Name: "SESSIONTOKEN", Value: cookie.Sessiontoken},
		},
	}, nil
}

func (r Registry) Username(ctx context.Context, userID int64) (string, error) {
	username, err := r.qry.GetUsername(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		r.tel.ReportBroken(report_registry_username, err, userID)
		return "", &StoreError{Op: "username", Cause: err}
	}
	return username, nil
}

func (r Registry) UserIDs(ctx context.Context) ([]int64, error) {
	ids, err := r.qry.ListUserIDs(ctx)
	if err != nil {
		r.tel.ReportBroken(report_registry_user_ids, err)
		return nil, &StoreError{Op: "user ids", Cause: err}
	}
	return ids, nil
}

func (r Registry) Users(ctx context.Context) ([]User, error) {
	users, err := r.qry.ListUsers(ctx)
	if err != nil {
		r.tel.ReportBroken(report_registry_user_ids, err)
		return nil, &StoreError{Op: "users", Cause: err}
	}
	return users, nil
}

// Ping reports whether the database is reachable.
func (r Registry) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AddUser inserts the user and their cookies in a single transaction, if either
// insert fails nothing is stored.
func (r Registry) AddUser(ctx context.Context, user NewUser) (int64, error) {
	err := user.Validate()
	if err != nil {
		return 0, err
	}

	tx, discard, commit, err := r.makeTx(ctx)
	if err != nil {
		r.tel.ReportBroken(report_registry_add_user, fmt.Errorf("begin: %w", err))
		return 0, &StoreError{Op: "add user", Cause: err}
	}
	defer discard()

	id, err := tx.CreateUser(ctx, user.Username)
	if err != nil {
		r.tel.ReportBroken(report_registry_add_user, fmt.Errorf("insert user: %w", err))
		return 0, &StoreError{Op: "add user", Cause: err}
	}
	err = tx.CreateCookies(ctx, db.Cookie{
		UserID:       id,
		Cfid:         user.CFID,
		Cftoken:      user.CFTOKEN,
		Sessionid:    user.SESSIONID,
		Sessiontoken: user.SESSIONTOKEN,
	})
	if err != nil {
		r.tel.ReportBroken(report_registry_add_user, fmt.Errorf("insert cookies: %w", err))
		return 0, &StoreError{Op: "add user", Cause: err}
	}

	err = commit()
	if err != nil {
		r.tel.ReportBroken(report_registry_add_user, fmt.Errorf("commit: %w", err))
		return 0, &StoreError{Op: "add user", Cause: err}
	}
	return id, nil
}
