package telemetry

import "sync"

// Report is a single call made to a Recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it is meant to be
// injected in tests that want to assert a component reported (or did not report)
// a failure.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) add(kind, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Reports returns a copy of the reports of the given kind ("broken", "warning",
// "debug" or "count"), or all of them if kind is empty.
func (r *Recorder) Reports(kind string) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Report{}
	for _, rep := range r.reports {
		if kind == "" || rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}
