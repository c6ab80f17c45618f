/*
Package metrics exposes jobwatch health observations as Prometheus gauges.

Metrics exist only in continuous mode: each pass of the health loop calls
Observe with the fresh result, and an optional HTTP listener serves
/metrics plus a JSON /healthz mirroring the last report. One-shot commands
never start the listener.
*/
package metrics
