// Package middleware holds the global and route-level Echo middleware:
// request IDs, request-scoped logging, JWT authentication, role checks,
// rate limiting, New Relic tracing and the global error handler.
package middleware
