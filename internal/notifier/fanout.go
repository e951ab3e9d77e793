package notifier

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report summarizes a fan-out. Users is the number of registered users the
// fan-out started with, every one of them is counted in exactly one of Notified,
// NotFound and Failed.
type Report struct {
	RunID    string
	Action   string
	Users    int
	Notified int
	NotFound int
	Failed   int
	Failures []*RunError
	// Err is set when the users could not be listed, in which case nobody was
	// processed.
	Err error
}

type userRun func(ctx context.Context, r *run) error

// fanout runs fn for every registered user with bounded concurrency. One user
// failing (or hanging until its timeout) never affects another user.
func (s *Service) fanout(ctx context.Context, action string, fn userRun) Report {
	report := Report{
		RunID:  uuid.NewString(),
		Action: action,
	}

	userIDs, err := s.store.UserIDs(ctx)
	if err != nil {
		s.tel.ReportBroken(report_notifier_fanout, err, action)
		report.Err = err
		return report
	}
	report.Users = len(userIDs)
	s.metrics.RecordFanout(action, len(userIDs))

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(s.concurrency)

	for _, userID := range userIDs {
		userID := userID
		group.Go(func() error {
			userCtx, cancel := context.WithTimeout(ctx, s.userTimeout)
			defer cancel()

			r := newRun(report.RunID, userID, action)
			err := s.runUser(userCtx, r, fn)
			s.finish(r, err)

			mu.Lock()
			defer mu.Unlock()
			switch outcome(err) {
			case "notified":
				report.Notified++
			case "not_found":
				report.NotFound++
			default:
				report.Failed++
				runErr, ok := err.(*RunError)
				if !ok {
					runErr = r.fail(err)
				}
				report.Failures = append(report.Failures, runErr)
			}
			// user isolation: errors are collected, never returned to the group
			return nil
		})
	}
	_ = group.Wait()

	s.tel.ReportCount(report_notifier_fanout_sent, int64(report.Notified))
	if report.Failed > 0 {
		s.tel.ReportWarning(report_notifier_fanout, action, report.RunID, report.Failed, report.Users)
	}
	return report
}

// runUser turns a panic in fn into a failure of that user's run, the other
// users of the fan-out keep going.
func (s *Service) runUser(ctx context.Context, r *run, fn userRun) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		panicErr := fmt.Errorf("panic: %v", rec)
		s.tel.ReportBroken(report_notifier_fanout, panicErr, r.id, r.userID, string(debug.Stack()))
		err = r.fail(panicErr)
	}()
	return fn(ctx, r)
}

// NotifyAllForPeriod sends every registered user a reminder for their class in
// the given period. It never fails as a whole, see Report.
func (s *Service) NotifyAllForPeriod(ctx context.Context, period int) Report {
	return s.fanout(ctx, ActionClass, func(ctx context.Context, r *run) error {
		_, err := s.notifyClass(ctx, r, period)
		return err
	})
}

// NotifyUniformAll sends every registered user who needs a sport uniform today
// a reminder.
func (s *Service) NotifyUniformAll(ctx context.Context) Report {
	return s.fanout(ctx, ActionUniform, func(ctx context.Context, r *run) error {
		_, err := s.notifyUniform(ctx, r)
		return err
	})
}
