// Package health provides liveness and readiness checks for the pricebook
// server.
//
// Liveness (/health) only reports that the process is up. Readiness
// (/ready) runs every registered check concurrently, each bounded by the
// configured timeout, and answers 503 when any of them fails. The server
// registers two checks: catalog_loaded and catalog_valid.
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	health.RegisterCatalogChecks(checker, calculator.Catalog)
//	mux.HandleFunc("/health", checker.LivenessHandler())
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
package health
