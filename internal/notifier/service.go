// Package notifier runs the scrape, parse, resolve and notify pipeline for a
// single user and fans it out over every registered user.
package notifier

import (
	"context"
	"errors"
	"time"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/chrono"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/notify"
	"class-notifier/internal/timetable"
)

const (
	report_notifier_run         = "notifier.run"
	report_notifier_run_skipped = "notifier.run-skipped"
	report_notifier_fanout      = "notifier.fanout"
	report_notifier_fanout_sent = "notifier.fanout-sent"
)

const (
	ActionClass   = "class"
	ActionUniform = "uniform"
)

var (
	// ErrClassNotFound is returned when the timetable has no record for the period.
	ErrClassNotFound = errors.New("class not found")
	// ErrNoSportUniform is returned when no sport uniform is needed today.
	ErrNoSportUniform = errors.New("no sport uniform found")
)

// Store is the read side of the user registry.
//
// note: fault injection point
type Store interface {
	Credential(ctx context.Context, userID int64) (timetable.Credential, error)
	Username(ctx context.Context, userID int64) (string, error)
	UserIDs(ctx context.Context) ([]int64, error)
}

// Fetcher retrieves the raw timetable html of a user.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, cred timetable.Credential) (string, error)
}

// Dispatcher delivers a message to a topic.
//
// note: fault injection point
type Dispatcher interface {
	Notify(ctx context.Context, message, topic string) error
}

// MetricsRecorder receives the outcome of every run.
type MetricsRecorder interface {
	RecordRun(action, outcome string, duration time.Duration)
	RecordFanout(action string, users int)
}

type nopMetrics struct{}

func (nopMetrics) RecordRun(string, string, time.Duration) {}
func (nopMetrics) RecordFanout(string, int)                {}

type Options struct {
	// Concurrency is the max number of users processed at once in a fan-out,
	// defaults to 4.
	Concurrency int
	// UserTimeout bounds a single user's run inside a fan-out, defaults to 2 minutes.
	UserTimeout time.Duration
	// SportRule defaults to timetable.DefaultSportRule.
	SportRule *timetable.SportRule
}

type Service struct {
	store      Store
	fetcher    Fetcher
	dispatcher Dispatcher
	clock      chrono.API
	metrics    MetricsRecorder
	tel        telemetry.API

	concurrency int
	userTimeout time.Duration
	sportRule   timetable.SportRule
}

type serviceConfig struct {
	metrics MetricsRecorder
	tel     telemetry.API
}

type ServiceOption func(cfg *serviceConfig)

func WithMetrics(metrics MetricsRecorder) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.metrics = metrics
	}
}

func WithTelemetry(tel telemetry.API) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.tel = tel
	}
}

func NewService(
	store Store,
	fetcher Fetcher,
	dispatcher Dispatcher,
	clock chrono.API,
	opts Options,
	options ...ServiceOption,
) *Service {
	assert.NotNil(store, "store")
	assert.NotNil(fetcher, "fetcher")
	assert.NotNil(dispatcher, "dispatcher")
	assert.NotNil(clock, "clock")

	cfg := serviceConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	s := &Service{
		store:       store,
		fetcher:     fetcher,
		dispatcher:  dispatcher,
		clock:       clock,
		metrics:     nopMetrics{},
		tel:         telemetry.SlogAPI{},
		concurrency: opts.Concurrency,
		userTimeout: opts.UserTimeout,
		sportRule:   timetable.DefaultSportRule,
	}
	if cfg.metrics != nil {
		s.metrics = cfg.metrics
	}
	if cfg.tel != nil {
		s.tel = cfg.tel
	}
	s.tel = telemetry.NewScopedAPI("notifier", s.tel)

	if s.concurrency <= 0 {
		s.concurrency = 4
	}
	if s.userTimeout <= 0 {
		s.userTimeout = time.Minute * 2
	}
	if opts.SportRule != nil {
		s.sportRule = *opts.SportRule
	}

	return s
}

// records runs the pipeline up to records-parsed.
func (s *Service) records(ctx context.Context, r *run) ([]timetable.ClassRecord, error) {
	cred, err := s.store.Credential(ctx, r.userID)
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StageCredentialsLoaded)

	html, err := s.fetcher.Fetch(ctx, cred)
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StageHtmlFetched)

	result := timetable.Parse(html)
	if result.Skipped > 0 {
		s.tel.ReportDebug("skipped timetable rows", r.userID, result.Skipped)
	}
	r.advance(StageRecordsParsed)

	return result.Records, nil
}

// Classes returns every class on the user's timetable.
func (s *Service) Classes(ctx context.Context, userID int64) ([]timetable.ClassRecord, error) {
	return s.records(ctx, newRun("", userID, ActionClass))
}

func (s *Service) classForPeriod(ctx context.Context, r *run, period int) (timetable.ClassRecord, error) {
	records, err := s.records(ctx, r)
	if err != nil {
		return timetable.ClassRecord{}, err
	}
	record, found := timetable.FindPeriod(records, period)
	if !found {
		return timetable.ClassRecord{}, ErrClassNotFound
	}
	r.advance(StageTargetResolved)
	return record, nil
}

// ClassForPeriod returns the user's class in the given period, or ErrClassNotFound.
func (s *Service) ClassForPeriod(ctx context.Context, period int, userID int64) (timetable.ClassRecord, error) {
	return s.classForPeriod(ctx, newRun("", userID, ActionClass), period)
}

func (s *Service) dispatch(ctx context.Context, r *run, message func(username string) string) error {
	username, err := s.store.Username(ctx, r.userID)
	if err != nil {
		return r.fail(err)
	}
	r.advance(StageUsernameResolved)

	err = s.dispatcher.Notify(ctx, message(username), notify.Topic(username))
	if err != nil {
		return r.fail(err)
	}
	r.advance(StageNotified)
	return nil
}

func (s *Service) notifyClass(ctx context.Context, r *run, period int) (timetable.ClassRecord, error) {
	record, err := s.classForPeriod(ctx, r, period)
	if err != nil {
		return record, err
	}
	err = s.dispatch(ctx, r, func(string) string {
		return ClassMessage(period, record)
	})
	if err != nil {
		return record, err
	}
	r.advance(StageDone)
	return record, nil
}

// NotifyClass sends the user a reminder for the class in the given period.
// Every failure is returned to the caller.
func (s *Service) NotifyClass(ctx context.Context, period int, userID int64) (timetable.ClassRecord, error) {
	r := newRun("", userID, ActionClass)
	record, err := s.notifyClass(ctx, r, period)
	s.finish(r, err)
	return record, err
}

func (s *Service) uniform(ctx context.Context, r *run) (timetable.SportOutcome, error) {
	records, err := s.records(ctx, r)
	if err != nil {
		return timetable.NoSport, err
	}
	outcome := timetable.FindSportPeriod(records, s.clock.Now(), s.sportRule)
	if !outcome.Found() {
		return outcome, ErrNoSportUniform
	}
	r.advance(StageTargetResolved)
	return outcome, nil
}

// Uniform returns the sport outcome of the user's timetable today, or
// ErrNoSportUniform.
func (s *Service) Uniform(ctx context.Context, userID int64) (timetable.SportOutcome, error) {
	return s.uniform(ctx, newRun("", userID, ActionUniform))
}

func (s *Service) notifyUniform(ctx context.Context, r *run) (timetable.SportOutcome, error) {
	outcome, err := s.uniform(ctx, r)
	if err != nil {
		return outcome, err
	}
	err = s.dispatch(ctx, r, UniformMessage)
	if err != nil {
		return outcome, err
	}
	r.advance(StageDone)
	return outcome, nil
}

// NotifyUniform sends the user a sport uniform reminder if one is needed today.
func (s *Service) NotifyUniform(ctx context.Context, userID int64) (timetable.SportOutcome, error) {
	r := newRun("", userID, ActionUniform)
	outcome, err := s.notifyUniform(ctx, r)
	s.finish(r, err)
	return outcome, err
}

// outcome classifies the result of a run for metrics and fan-out reports.
func outcome(err error) string {
	switch {
	case err == nil:
		return "notified"
	case errors.Is(err, ErrClassNotFound), errors.Is(err, ErrNoSportUniform):
		return "not_found"
	default:
		return "failed"
	}
}

func (s *Service) finish(r *run, err error) {
	result := outcome(err)
	switch result {
	case "failed":
		s.tel.ReportWarning(report_notifier_run, r.action, err)
	case "not_found":
		s.tel.ReportDebug(report_notifier_run_skipped, r.id, r.action, r.userID, err.Error())
	}
	s.metrics.RecordRun(r.action, result, time.Since(r.start))
}
