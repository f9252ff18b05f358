// Package metrics declares the Prometheus collectors used across the
// library access layer. All collectors are registered at import time via
// promauto.
package metrics
