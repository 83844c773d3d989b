// Package server exposes the pricing engine as a JSON HTTP API for the
// browser front end.
//
// # Endpoints
//
//	GET  /v1/catalog    entries, usage profiles and volume rates
//	POST /v1/estimate   {provider, model, version, prompt, response, usage}
//	POST /v1/compare    {prompt, response, usage}
//	POST /v1/tiers      {provider, total_tokens} or {provider, prompt, response}
//	POST /v1/ingest     multipart upload, field "file"
//	GET  /health        liveness
//	GET  /ready         readiness (catalog loaded and valid)
//	GET  /version       build information
//	GET  /metrics       Prometheus metrics, when enabled
//
// # Errors
//
// Failures are returned as
//
//	{"error": {"type": "unknown_model", "message": "..."}}
//
// Unknown models, providers and usage profiles answer 404, malformed input
// and unreadable uploads 422, undecodable requests 400 and rate-limited
// clients 429. A failed estimate also carries a zero-valued "estimate" so
// the caller can keep rendering its row.
//
// # Middleware
//
// From the outside in: recovery, request ID, logging, tracing, rate
// limiting, CORS. Request and upload bodies are kept in memory only and
// are never logged.
package server
