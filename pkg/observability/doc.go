/*
Package observability exposes Prometheus metrics for the echo service.

Metrics are fed by connection hooks, so collecting them never changes what a
client receives.
*/
package observability
