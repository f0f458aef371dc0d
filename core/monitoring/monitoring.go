package monitoring

import (
	"sync"
	"time"
)

// Monitor reports failures that must not interrupt a calculation, such as a
// history store or metrics sink going down.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor. A nil monitor restores the no-op default.
func Init(m Monitor) {
	mu.Lock()
	defer mu.Unlock()
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

// Current returns the global monitor.
func Current() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	Current().CaptureException(err, tags)
}

// Recover captures panics in goroutines. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		if rm, ok := Current().(panicReporter); ok {
			rm.ReportPanic(r)
		}
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	Current().Flush(d)
}

// panicReporter is implemented by monitors able to forward a recovered value.
type panicReporter interface {
	ReportPanic(v any)
}

// Captured is an error recorded by a Recorder.
type Captured struct {
	Err  error
	Tags map[string]string
}

// Recorder keeps captured errors in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Captured
}

func (r *Recorder) CaptureException(err error, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Captured{Err: err, Tags: tags})
}

func (r *Recorder) Recover()            {}
func (r *Recorder) Flush(time.Duration) {}

// Events returns a copy of the captured errors.
func (r *Recorder) Events() []Captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Captured(nil), r.events...)
}
