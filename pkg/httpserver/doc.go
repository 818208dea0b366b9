// Package httpserver wraps net/http with env-driven configuration, graceful
// shutdown on context cancellation or termination signals, and a probe-based
// health endpoint.
package httpserver
