// Package jobs implements background job processing for the festival API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - CounterReconciler: periodic repair of denormalized registration counters
//
// # Lifecycle
//
// Jobs follow a Start/Stop lifecycle:
//
//	reconciler := jobs.NewCounterReconciler(activityRepo, registrationRepo, interval, logger)
//	reconciler.Start()
//	defer reconciler.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application. A failed pass is retried
// on the next tick.
package jobs
