// Package otel binds memauth metrics to OpenTelemetry observable instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per memauth counter, an
// Int64ObservableGauge per histogram bucket and one gauge for the session count. A
// single callback reads [memauth.Service.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate service state.
package otel
