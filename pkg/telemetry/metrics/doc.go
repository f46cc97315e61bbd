// Package metrics exposes Prometheus instrumentation for the gateway:
// request counts and latencies, streamed chunk and token counts, and
// rate-limit rejections. Metrics are served on /metrics via promhttp.
package metrics
