package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"class-notifier/internal/timetable"

	"github.com/stretchr/testify/require"
)

func TestNotifyAllForPeriodIsolatesFailures(t *testing.T) {
	f := newFixture()
	f.fetcher.fail = map[int64]error{2: &timetable.FetchError{Status: 500}}

	report := f.service(monday, Options{Concurrency: 2}).NotifyAllForPeriod(context.Background(), 1)

	require.NoError(t, report.Err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, 3, report.Users)
	require.Equal(t, 2, report.Notified)
	require.Equal(t, 0, report.NotFound)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	require.EqualValues(t, 2, report.Failures[0].UserID)
	require.Equal(t, report.RunID, report.Failures[0].RunID)
	require.Equal(t, StageCredentialsLoaded, report.Failures[0].Stage)

	require.Equal(t, []string{"class_notifier_alice", "class_notifier_carol"}, f.dispatcher.topics())
	require.NotEmpty(t, f.tel.Reports("warning"))
}

func TestNotifyAllForPeriodNotFound(t *testing.T) {
	f := newFixture()

	// carol's timetable has no period 2
	report := f.service(monday, Options{}).NotifyAllForPeriod(context.Background(), 2)
	require.Equal(t, 2, report.Notified)
	require.Equal(t, 1, report.NotFound)
	require.Zero(t, report.Failed)

	skipped := 0
	for _, rep := range f.tel.Reports("debug") {
		if rep.ID == "notifier: "+report_notifier_run_skipped {
			skipped++
			require.Equal(t, int64(3), rep.Params[2])
		}
	}
	require.Equal(t, 1, skipped)
}

func TestNotifyAllForPeriodRecoversPanickingUser(t *testing.T) {
	f := newFixture()
	f.fetcher.panics = map[int64]bool{2: true}

	report := f.service(monday, Options{Concurrency: 3}).NotifyAllForPeriod(context.Background(), 1)

	require.Equal(t, 3, report.Users)
	require.Equal(t, 2, report.Notified)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	require.EqualValues(t, 2, report.Failures[0].UserID)
	require.Equal(t, StageCredentialsLoaded, report.Failures[0].Stage)
	require.ErrorContains(t, report.Failures[0], "panic")
	require.Equal(t, []string{"class_notifier_alice", "class_notifier_carol"}, f.dispatcher.topics())
	require.Len(t, f.tel.Reports("broken"), 1)
}

func TestNotifyAllForPeriodHangingUser(t *testing.T) {
	f := newFixture()
	f.fetcher.block = map[int64]bool{1: true}

	start := time.Now()
	report := f.service(monday, Options{
		Concurrency: 1,
		UserTimeout: time.Millisecond * 50,
	}).NotifyAllForPeriod(context.Background(), 1)

	require.Less(t, time.Since(start), time.Second*5)
	require.Equal(t, 2, report.Notified)
	require.Equal(t, 1, report.Failed)
	require.ErrorIs(t, report.Failures[0], context.DeadlineExceeded)
}

func TestNotifyAllForPeriodStoreFailure(t *testing.T) {
	f := newFixture()
	f.store.listErr = errors.New("database is locked")

	report := f.service(monday, Options{}).NotifyAllForPeriod(context.Background(), 1)
	require.Error(t, report.Err)
	require.Zero(t, report.Users)
	require.Empty(t, f.dispatcher.sent)
	require.Len(t, f.tel.Reports("broken"), 1)
}

func TestNotifyUniformAll(t *testing.T) {
	f := newFixture()
	delete(f.store.credentials, 2)

	report := f.service(thursday, Options{}).NotifyUniformAll(context.Background())
	require.Equal(t, 3, report.Users)
	// alice falls back to the thursday rule, carol has a sport class
	require.Equal(t, 2, report.Notified)
	require.Equal(t, 1, report.Failed)
	require.ErrorIs(t, report.Failures[0], timetable.ErrMissingCredentials)
	require.Equal(t, []string{"class_notifier_alice", "class_notifier_carol"}, f.dispatcher.topics())

	f = newFixture()
	report = f.service(monday, Options{}).NotifyUniformAll(context.Background())
	require.Equal(t, 1, report.Notified)
	require.Equal(t, 2, report.NotFound)
}
