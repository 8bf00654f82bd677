// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP layer is expressed as an *HTTPError so
// that clients always receive the same JSON shape: a machine-readable code,
// a human message, optional field errors and an optional action hint.
package errs
