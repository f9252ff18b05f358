// Package middleware provides the HTTP middleware chain: request logging
// and Prometheus metrics collection.
package middleware
