// Package middleware provides the HTTP middleware wrapping the procedure
// endpoints. The router applies it in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Handler
//
// RequestID also seeds the call tree id, so a procedure call made by a
// request carries the request's X-Request-ID in its logs and trace.
package middleware
