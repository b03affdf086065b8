// Package observability initialises the OpenTelemetry tracer and meter
// providers that httpclient instruments report to. Both export over OTLP/HTTP.
//
//	shutdown, err := observability.Init(ctx, cfg, "reqkit", version.Get().Version)
//	defer shutdown(ctx)
//
// Clients opt in with httpclient.Config.Tracing and httpclient.Config.Metrics,
// which read the global providers installed here.
package observability
