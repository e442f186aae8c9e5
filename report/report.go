// Package report delivers progress and failure events of a generation run.
//
// The pipeline reports through a Sink; it never writes to the terminal
// itself. Console renders events for people, Telemetry records them as
// structured events, and Multi fans out to several sinks.
package report

import (
	"time"

	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// Pass identifies one generation pass of a run.
type Pass string

const (
	// MainPass produces the interface file, with contracts unless split.
	MainPass Pass = "main"
	// ContractsPass produces the contracts file of a split run.
	ContractsPass Pass = "contracts"
)

// Sink receives the events of a run in order. Implementations must not
// fail the run; errors are theirs to swallow.
type Sink interface {
	// Started is the first event of a run. supportKey is "" when telemetry
	// is disabled.
	Started(version, supportKey string)
	// Resolved reports the effective settings.
	Resolved(s settings.Settings)
	// Validated reports a validation result, valid or not.
	Validated(vr *spec.ValidationResult)
	// Generated reports the length in bytes of generated source.
	Generated(pass Pass, length int)
	// Written reports a file written to disk.
	Written(pass Pass, path string, size int)
	// Completed is the last event of a successful run.
	Completed(elapsed time.Duration)
	// Failed is the last event of a failed run.
	Failed(err error, validationSkipped bool)
}

// Discard is a Sink that ignores every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Started(string, string) {}
func (discard) Resolved(settings.Settings) {}
func (discard) Validated(*spec.ValidationResult) {}
func (discard) Generated(Pass, int) {}
func (discard) Written(Pass, string, int) {}
func (discard) Completed(time.Duration) {}
func (discard) Failed(error, bool) {}

// Multi returns a Sink that forwards every event to each sink in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Started(version, supportKey string) {
	for _, s := range m {
		s.Started(version, supportKey)
	}
}

func (m multi) Resolved(st settings.Settings) {
	for _, s := range m {
		s.Resolved(st)
	}
}

func (m multi) Validated(vr *spec.ValidationResult) {
	for _, s := range m {
		s.Validated(vr)
	}
}

func (m multi) Generated(pass Pass, length int) {
	for _, s := range m {
		s.Generated(pass, length)
	}
}

func (m multi) Written(pass Pass, path string, size int) {
	for _, s := range m {
		s.Written(pass, path, size)
	}
}

func (m multi) Completed(elapsed time.Duration) {
	for _, s := range m {
		s.Completed(elapsed)
	}
}

func (m multi) Failed(err error, validationSkipped bool) {
	for _, s := range m {
		s.Failed(err, validationSkipped)
	}
}
