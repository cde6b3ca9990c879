// Package hoist moves computations which are anticipated on every path out of a block into that
// block, and removes the copies made redundant by the move.
//
// Functions are built with NewBuilder, and a Pass rewrites them in place:
//
//	p, err := hoist.New(hoist.NewConfig())
//	...
//	changed := p.Run(b)
package hoist

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TarunAkash/hoist-anticipated-expressions/internal/libfunc"
	"github.com/TarunAkash/hoist-anticipated-expressions/internal/ssa"
)

// Pass hoists anticipated expressions. A Pass holds no per-function state, but the Builder
// passed to Run must not be used by anyone else during the run.
type Pass struct {
	purity *libfunc.Table
	logger *zap.Logger
	dump   io.Writer
}

// Option customizes a Pass created by New.
type Option func(*Pass)

// WithLogger makes the Pass log to `logger` instead of a logger built from Config.Log.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pass) {
		p.logger = logger
	}
}

// WithDumpWriter enables the dump of the analysis sets to `w`.
func WithDumpWriter(w io.Writer) Option {
	return func(p *Pass) {
		p.dump = w
	}
}

// New returns a Pass configured by `cfg`. A nil `cfg` means NewConfig().
func New(cfg *Config, opts ...Option) (*Pass, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pass{purity: cfg.purity()}
	if cfg.Dump.Sets {
		p.dump = os.Stderr
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		logger, err := newLogger(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		p.logger = logger
	}
	return p, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// Run rewrites the function held by `b` and returns true if it has been changed.
func (p *Pass) Run(b Builder) bool {
	return b.HoistAnticipatedExpressions(ssa.HoistOptions{
		Purity:   p.purity,
		Logger:   p.logger,
		DumpSets: p.dump,
	})
}

// IsPure returns true if calls to the routine named `name` can be hoisted.
func (p *Pass) IsPure(name string) bool {
	return p.purity.IsPure(name)
}
