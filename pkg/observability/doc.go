/*
Package observability turns generator lifecycle events into Prometheus metrics and log lines.

Hooks returned by Metrics and Logging plug into graphwalker.WithLifecycleHooks and can be
combined with domain.LifecycleHooks.Merge.
*/
package observability
