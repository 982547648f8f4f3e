// Package telemetry streams bridge events to HTTP clients as Server-Sent
// Events.
//
// Every published event gets a monotonic ID and is kept in a bounded replay
// buffer, so a reconnecting client that sends Last-Event-ID receives what it
// missed. A heartbeat event is sent while at least one client is connected.
package telemetry
