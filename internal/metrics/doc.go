// Package metrics exposes bridge counters and gauges in the Prometheus
// format. Collectors live on a private registry served by Handler.
package metrics
