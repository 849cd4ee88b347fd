// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geocss/config"
	"geocss/fixture"
	"geocss/selector"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// identifies program run in logs and reports
	RunID uuid.UUID

	// built by Setup from configuration
	Combiner *selector.Combiner
	Loader   *fixture.Loader

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return context.WithValue(ctx, envKey{}, &LocalEnv{RunID: id, start: time.Now()})
}

// Setup creates combiner and document loader, configuration and logger
// must be set already.
func (e *LocalEnv) Setup() {
	e.Combiner = selector.NewCombiner(e.Log, selector.WithTrace(e.Cfg.Combiner.Trace))
	e.Loader = fixture.NewLoader(e.Log)
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
