// Package service is the http api the browser extension talks to.
package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/registry"
	"class-notifier/internal/timetable"

	"github.com/go-chi/chi/v5"
)

const (
	report_service_health            = "service.health"
	report_service_send_notification = "service.send-notification"
	report_service_classes           = "service.classes"
	report_service_class             = "service.class"
	report_service_uniform           = "service.uniform"
	report_service_add_user          = "service.add-user"
	report_service_logs              = "service.logs"
	report_service_panic             = "service.panic"
)

// Notifier is the pipeline the api exposes.
//
// note: fault injection point
type Notifier interface {
	Classes(ctx context.Context, userID int64) ([]timetable.ClassRecord, error)
	NotifyClass(ctx context.Context, period int, userID int64) (timetable.ClassRecord, error)
	Uniform(ctx context.Context, userID int64) (timetable.SportOutcome, error)
}

// Dispatcher sends raw notifications.
//
// note: fault injection point
type Dispatcher interface {
	Notify(ctx context.Context, message, topic string) error
}

// Registry is the write side of the user store plus its health check.
//
// note: fault injection point
type Registry interface {
	AddUser(ctx context.Context, user registry.NewUser) (int64, error)
	Ping(ctx context.Context) error
}

// RequestRecorder counts served requests.
type RequestRecorder interface {
	RecordRequest(method, route string, statusCode int)
}

type Options struct {
	// DemoUserID is the user /fetch-classes-info reads, defaults to 1.
	DemoUserID int64
	// LogFile is the JSON log file /logs tails.
	LogFile string
	// LogLines is how many lines /logs returns, defaults to 30.
	LogLines int
	// Location is the timezone /logs renders times in, defaults to time.Local.
	Location *time.Location
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
	// Requests is notified of every served request when set.
	Requests RequestRecorder
}

type Server struct {
	notifier   Notifier
	dispatcher Dispatcher
	registry   Registry
	tel        telemetry.API
	opts       Options

	requestCount atomic.Int64
}

func New(notifier Notifier, dispatcher Dispatcher, registry Registry, opts Options, tel telemetry.API) *Server {
	assert.NotNil(notifier, "notifier")
	assert.NotNil(dispatcher, "dispatcher")
	assert.NotNil(registry, "registry")
	assert.NotNil(tel, "telemetry")

	if opts.DemoUserID == 0 {
		opts.DemoUserID = 1
	}
	if opts.LogLines <= 0 {
		opts.LogLines = 30
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Server{
		notifier:   notifier,
		dispatcher: dispatcher,
		registry:   registry,
		tel:        telemetry.NewScopedAPI("service", tel),
		opts:       opts,
	}
}

// RequestCount is the number of requests served since startup.
func (s *Server) RequestCount() int64 {
	return s.requestCount.Load()
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors)

	r.Get("/", s.handleHealth)
	r.Get("/logs", s.handleLogs)
	r.Post("/send-notification/{topic}/{message}", s.handleSendNotification)
	r.Post("/fetch-classes-info", s.handleFetchClasses)
	r.Post("/fetch-class-info/{period}/{userID}", s.handleFetchClass)
	r.Post("/fetch-uniform/{userID}", s.handleFetchUniform)
	r.Post("/add-user", s.handleAddUser)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	return r
}
