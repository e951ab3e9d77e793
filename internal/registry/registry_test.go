package registry

import (
	"context"
	"errors"
	"testing"

	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/timetable"
	"class-notifier/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var alice = NewUser{
	Username:     "alice",
	CFID:         "1",
	CFTOKEN:      "2",
	SESSIONID:    "3",
	SESSIONTOKEN: "4",
}

func TestAddUserAndRead(t *testing.T) {
	ctx := context.Background()
	reg := New(testutil.OpenDB(t), &telemetry.Recorder{})

	id, err := reg.AddUser(ctx, alice)
	require.NoError(t, err)

	username, err := reg.Username(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", username)

	cred, err := reg.Credential(ctx, id)
	require.NoError(t, err)
	expected := timetable.Credential{
		UserID: id,
		Fields: []timetable.CookieField{
			{Name: "CFID", Value: "1"},
			{Name: "CFTOKEN", Value: "2"},
			{Name: "SESSIONID", Value: "3"},
			{Name: "SESSIONTOKEN", Value: "4"},
		},
	}
	if diff := cmp.Diff(expected, cred); diff != "" {
		t.Fatalf("credential mismatch (-want +got):\n%s", diff)
	}

	ids, err := reg.UserIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{id}, ids)

	require.NoError(t, reg.Ping(ctx))
}

func TestUnknownUser(t *testing.T) {
	ctx := context.Background()
	reg := New(testutil.OpenDB(t), &telemetry.Recorder{})

	_, err := reg.Credential(ctx, 42)
	require.ErrorIs(t, err, timetable.ErrMissingCredentials)

	_, err = reg.Username(ctx, 42)
	require.ErrorIs(t, err, ErrUserNotFound)

	ids, err := reg.UserIDs(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAddUserValidation(t *testing.T) {
	ctx := context.Background()
	reg := New(testutil.OpenDB(t), &telemetry.Recorder{})

	incomplete := alice
	incomplete.SESSIONTOKEN = ""
	incomplete.Username = " "
	_, err := reg.AddUser(ctx, incomplete)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, []string{"username", "SESSIONTOKEN"}, validationErr.Missing)

	ids, err := reg.UserIDs(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAddUserRollsBack(t *testing.T) {
	ctx := context.Background()
	sqldb := testutil.OpenDB(t)
	tel := &telemetry.Recorder{}
	reg := New(sqldb, tel)

	// the user insert succeeds but the cookie insert cannot
	_, err := sqldb.Exec("DROP TABLE cookies")
	require.NoError(t, err)

	_, err = reg.AddUser(ctx, alice)
	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Len(t, tel.Reports("broken"), 1)

	ids, err := reg.UserIDs(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)
}
