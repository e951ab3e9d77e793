package notifier

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is how far a single user pipeline run got. A run only moves forward,
// a failure at any stage ends the run.
type Stage string

const (
	StageStart             Stage = "start"
	StageCredentialsLoaded Stage = "credentials-loaded"
	StageHtmlFetched       Stage = "html-fetched"
	StageRecordsParsed     Stage = "records-parsed"
	StageTargetResolved    Stage = "target-resolved"
	StageUsernameResolved  Stage = "username-resolved"
	StageNotified          Stage = "notified"
	StageDone              Stage = "done"
)

// RunError is the failure of a single user's pipeline run, Stage is the last
// stage that completed successfully.
type RunError struct {
	RunID  string
	UserID int64
	Stage  Stage
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s (user %d) failed after %s: %s", e.RunID, e.UserID, e.Stage, e.Err.Error())
}

func (e *RunError) Unwrap() error {
	return e.Err
}

type run struct {
	id     string
	userID int64
	action string
	stage  Stage
	start  time.Time
}

func newRun(runID string, userID int64, action string) *run {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &run{
		id:     runID,
		userID: userID,
		action: action,
		stage:  StageStart,
		start:  time.Now(),
	}
}

func (r *run) advance(stage Stage) {
	r.stage = stage
}

func (r *run) fail(err error) *RunError {
	return &RunError{
		RunID:  r.id,
		UserID: r.userID,
		Stage:  r.stage,
		Err:    err,
	}
}
