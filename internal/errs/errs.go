// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer is rendered from an *HTTPError,
// so clients always receive the same JSON structure:
//
//	{"code":"NOT_FOUND","message":"Meeting not found","status":404,...}
package errs
