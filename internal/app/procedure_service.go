// Package app provides application services that orchestrate use cases by
// coordinating between the call engine, the procedure library and
// infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/app/callctx"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time check that ProcedureService implements ports.ProcedureService.
var _ ports.ProcedureService = (*ProcedureService)(nil)

// Registry is the procedure library as seen by the service.
type Registry interface {
	callctx.Library

	// Names returns all procedure names in sorted order.
	Names(ctx context.Context) ([]string, error)
}

// ProcedureService implements ports.ProcedureService. Every Call runs in a
// fresh call context sharing the library, pool environment and interceptor
// chain.
type ProcedureService struct {
	library Registry
	env     ports.Environment
	chain   *callctx.Chain
	cfg     config.CallConfig
	logger  *slog.Logger
}

// NewProcedureService creates a ProcedureService. A nil chain uses the bare
// call engine; a nil logger discards output.
func NewProcedureService(
	library Registry,
	env ports.Environment,
	chain *callctx.Chain,
	cfg config.CallConfig,
	logger *slog.Logger,
) *ProcedureService {
	if chain == nil {
		chain = callctx.NewChain()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProcedureService{
		library: library,
		env:     env,
		chain:   chain,
		cfg:     cfg,
		logger:  logger,
	}
}

// Call resolves name, then executes it as the root of a new call tree.
// Resolution failures are returned as errors; failures raised while the
// procedure runs are reported in the result together with the trace.
func (s *ProcedureService) Call(ctx context.Context, name string, args []any, trace bool) (*ports.CallResult, error) {
	proc, err := s.library.Procedure(ctx, name)
	if err != nil {
		s.logger.InfoContext(ctx, "procedure not resolved",
			slog.String("operation", "ProcedureService.Call"),
			slog.String("procedure", name),
			slog.Any("error", err),
		)
		return nil, err
	}

	cx := callctx.New(ctx, s.library,
		callctx.WithID(ports.CallIDFromContext(ctx)),
		callctx.WithEnvironment(s.env),
		callctx.WithChain(s.chain),
		callctx.WithLogger(s.logger),
		callctx.WithTrace(trace),
		callctx.WithLogLimit(s.cfg.LogLimit),
		callctx.WithPreviewLimit(s.cfg.PreviewLimit),
		callctx.WithTraceDepth(s.cfg.TraceDepth),
	)
	s.logger.InfoContext(ctx, "calling procedure",
		slog.String("operation", "ProcedureService.Call"),
		slog.String("call_id", cx.ID()),
		slog.String("procedure", proc.ID()),
		slog.Int("args", len(args)),
	)

	res, err := cx.Execute(proc.ID(), args)
	result := &ports.CallResult{
		ID:        cx.ID(),
		Procedure: proc.ID(),
		Data:      res,
		Error:     err,
		Start:     timeAttr(cx, callctx.AttrStartTime),
		End:       timeAttr(cx, callctx.AttrEndTime),
	}
	if cx.IsTracing() {
		result.Log = cx.LogString()
	}
	if stack, ok := cx.Attribute(callctx.AttrStack).([]string); ok {
		result.Stack = stack
	}

	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, procedure.ErrArgument) || errors.Is(err, procedure.ErrNotFound) {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "procedure call failed",
			slog.String("operation", "ProcedureService.Call"),
			slog.String("call_id", cx.ID()),
			slog.String("procedure", proc.ID()),
			slog.Duration("duration", result.Duration()),
			slog.Any("error", err),
		)
	}
	return result, nil
}

// List returns the names of all available procedures.
func (s *ProcedureService) List(ctx context.Context) ([]string, error) {
	names, err := s.library.Names(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list procedures",
			slog.String("operation", "ProcedureService.List"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return names, nil
}

// Describe returns the definition of the named procedure.
func (s *ProcedureService) Describe(ctx context.Context, name string) (*procedure.Definition, error) {
	proc, err := s.library.Procedure(ctx, name)
	if err != nil {
		return nil, err
	}
	return procedure.DefinitionOf(proc), nil
}

// timeAttr returns a time attribute of cx, or the zero time.
func timeAttr(cx *callctx.Context, key string) time.Time {
	t, _ := cx.Attribute(key).(time.Time)
	return t
}
