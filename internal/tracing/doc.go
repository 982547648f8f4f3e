// Package tracing configures OpenTelemetry trace export over OTLP/HTTP.
package tracing
