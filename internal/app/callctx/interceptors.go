package callctx

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/rapidcontext/internal/app/callctx"

// Logging logs every procedure call with its duration. Failed calls are
// logged at warn level, successful ones at debug level. A nil logger uses
// the Context logger.
func Logging(logger *slog.Logger) Interceptor {
	return Interceptor{
		Name: "logging",
		Call: func(next CallFunc) CallFunc {
			return func(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (any, error) {
				l := logger
				if l == nil {
					l = cx.Logger()
				}
				start := time.Now()
				res, err := next(cx, proc, args)
				attrs := []any{
					slog.String("operation", "callctx.Call"),
					slog.String("call_id", cx.ID()),
					slog.String("procedure", proc.ID()),
					slog.Int("depth", cx.Stack().Height()),
					slog.Duration("duration", time.Since(start)),
				}
				if err != nil {
					l.WarnContext(cx, "procedure call failed", append(attrs, slog.Any("error", err))...)
				} else {
					l.DebugContext(cx, "procedure call completed", attrs...)
				}
				return res, err
			}
		},
		Release: func(next ReleaseFunc) ReleaseFunc {
			return func(cx *Context, commit bool) {
				l := logger
				if l == nil {
					l = cx.Logger()
				}
				if pools := cx.Reservations(); len(pools) > 0 {
					l.DebugContext(cx, "releasing connections",
						slog.String("operation", "callctx.ReleaseAll"),
						slog.String("call_id", cx.ID()),
						slog.Any("pools", pools),
						slog.Bool("commit", commit),
					)
				}
				next(cx, commit)
			}
		},
	}
}

// Telemetry records a span and the procedure call metrics for every call,
// and counts released connection reservations. A nil metrics records spans
// only.
func Telemetry(metrics *telemetry.Metrics) Interceptor {
	tracer := otel.Tracer(tracerName)
	return Interceptor{
		Name: "telemetry",
		Call: func(next CallFunc) CallFunc {
			return func(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (any, error) {
				ctx, span := tracer.Start(cx, "procedure "+proc.ID(),
					trace.WithAttributes(
						telemetry.AttrProcedure.String(proc.ID()),
						attribute.String("procedure.type", proc.Type()),
						attribute.Int("procedure.depth", cx.Stack().Height()),
					),
				)
				defer span.End()

				start := time.Now()
				res, err := next(cx, proc, args)

				result := "success"
				if err != nil {
					result = "error"
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				}
				if metrics != nil {
					attrs := metric.WithAttributes(
						telemetry.AttrProcedure.String(proc.ID()),
						telemetry.AttrResult.String(result),
					)
					metrics.ProcedureCallDuration.Record(ctx, time.Since(start).Seconds(), attrs)
					metrics.ProcedureCallTotal.Add(ctx, 1, attrs)
				}
				return res, err
			}
		},
		Release: func(next ReleaseFunc) ReleaseFunc {
			return func(cx *Context, commit bool) {
				if metrics != nil {
					result := "rollback"
					if commit {
						result = "commit"
					}
					for _, pool := range cx.Reservations() {
						metrics.ConnectionReleaseTotal.Add(cx, 1, metric.WithAttributes(
							telemetry.AttrPool.String(pool),
							telemetry.AttrResult.String(result),
						))
					}
				}
				next(cx, commit)
			}
		},
	}
}

// Recovery converts a panic raised by an inner interceptor into an execution
// error, so the call tree rolls back and the caller receives an ordinary
// error. Panics inside procedures are already handled by the call itself.
func Recovery() Interceptor {
	return Interceptor{
		Name: "recovery",
		Call: func(next CallFunc) CallFunc {
			return func(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (res any, err error) {
				defer func() {
					if rec := recover(); rec != nil {
						cx.Logger().ErrorContext(cx, "procedure panicked",
							slog.String("operation", "callctx.Call"),
							slog.String("call_id", cx.ID()),
							slog.String("procedure", proc.ID()),
							slog.Any("panic", rec),
							slog.String("stack", string(debug.Stack())),
						)
						res = nil
						err = &procedure.Error{
							Kind:      procedure.ErrExecution,
							Procedure: proc.ID(),
							Msg:       "procedure panicked",
							Err:       fmt.Errorf("%v", rec),
						}
					}
				}()
				return next(cx, proc, args)
			}
		},
	}
}

// Timeout interrupts the whole call tree once d has elapsed since the
// top-level call started. A non-positive d disables the timeout.
func Timeout(d time.Duration) Interceptor {
	return Interceptor{
		Name: "timeout",
		Call: func(next CallFunc) CallFunc {
			return func(cx *Context, proc procedure.Procedure, args *procedure.Bindings) (any, error) {
				if d <= 0 || cx.Stack().Height() > 1 {
					return next(cx, proc, args)
				}
				timer := time.AfterFunc(d, cx.Interrupt)
				defer timer.Stop()
				res, err := next(cx, proc, args)
				if err != nil && cx.IsInterrupted() && !errors.Is(err, procedure.ErrInterrupted) {
					err = &procedure.Error{
						Kind:      procedure.ErrInterrupted,
						Procedure: proc.ID(),
						Msg:       fmt.Sprintf("call timed out after %s", d),
						Err:       err,
					}
				}
				return res, err
			}
		},
	}
}
