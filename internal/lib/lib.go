// Package lib groups integrations that sit beside the request path: the
// background job service (Asynq over Redis) and the email client (Resend).
package lib
