/*
Package observability turns lifecycle events into logs and Prometheus metrics.

Metrics.Hooks returns the domain.LifecycleHooks to pass both to the engine
(step events) and to the runner (search events).
*/
package observability
