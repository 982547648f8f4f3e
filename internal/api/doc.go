// Package api implements the HTTP control surface of the SaltyChat bridge.
//
// It exposes the bridge state, feeds plugin status codes and disconnects
// into the client module, runs host commands and legacy exports, and streams
// bridge events over SSE. Health probes are served by heptiolabs/healthcheck
// and metrics by the Prometheus handler.
package api
