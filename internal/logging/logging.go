// Package logging centralizes the stdr.Logger construction the
// teacher hand-rolled in pkg/log.go. That draft reimplemented the
// entire logr.Logger surface (WithName/WithValues/V/Info/Error) by
// hand, even though the teacher's own go.mod already requires
// go-logr/stdr for exactly this job — this rendition wires stdr in
// instead of re-deriving it.
package logging

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Verbosity levels, mirroring the teacher's logInfo/logDebug split:
// V(0) for lifecycle events (open, create, flush, close, split, root
// promotion), V(1) for per-call tracing (insert, search).
const (
	LevelInfo  = 0
	LevelDebug = 1
)

// New returns a root logr.Logger backed by the standard library
// logger, writing to stderr with the standard date/time flags.
// Components derive their own named logger from it via WithName.
func New() logr.Logger {
	stdr.SetVerbosity(LevelDebug)
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}

// Discard returns a logger that drops everything, for tests and
// callers that do not want tree lifecycle events on stderr. logr's
// own Discard() helper postdates the v0.2.1 API this module pins to
// (matching the teacher's go.mod), so this rendition keeps a minimal
// no-op implementation instead of bumping the dependency.
func Discard() logr.Logger {
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Enabled() bool                                  { return false }
func (discardLogger) Info(msg string, keysAndValues ...interface{})  {}
func (discardLogger) Error(err error, msg string, kv ...interface{}) {}
func (d discardLogger) V(int) logr.Logger                            { return d }
func (d discardLogger) WithValues(kv ...interface{}) logr.Logger     { return d }
func (d discardLogger) WithName(name string) logr.Logger             { return d }
