/*
Package observability turns run lifecycle events into metrics and logs.

Both are delivered as domain.LifecycleHooks, so they can be merged and handed
to any driver that fires them (the runner, the HTTP server, the CLI).
*/
package observability
