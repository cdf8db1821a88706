// Package handler is the HTTP layer behind the router.
//
// Each endpoint is a typed function wrapped by Handle, HandleNoContent or
// HandleFile, which bind the request into its payload, normalize and
// validate it, then call the service layer.
package handler
