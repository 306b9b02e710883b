// Package prometheus renders memauth metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts a [memauth.Service] and exposes an [http.Handler].
// Counter names are prefixed memauth_*_total, the histogram is
// memauth_authenticate_latency_seconds and memauth_sessions is a gauge of the
// session map size.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate service state.
package prometheus
