// Package middleware provides the gateway's HTTP middleware: panic
// recovery, request logging, request IDs, CORS, per-client rate limiting
// and an optional shared-password check.
package middleware
