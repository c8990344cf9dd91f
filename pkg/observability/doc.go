/*
Package observability turns engine lifecycle hooks into metrics and logs.

Metrics registers Prometheus collectors and exposes hooks that feed them;
LoggingHooks writes one structured record per event. Both return
domain.LifecycleHooks and compose with LifecycleHooks.Merge.
*/
package observability
