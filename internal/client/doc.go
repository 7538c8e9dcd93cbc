// Package client talks to the code review service over HTTP.
//
// [Client.SubmitReview] performs a single request/response review with a fixed
// timeout. [Client.OpenStream] opens a server-sent event stream and returns a
// [Stream] handle that the caller drives with Next or ranges over with All;
// the stream ends when a complete event arrives or the channel fails, and is
// never reconnected. Auxiliary endpoints (history, projects, stats, health)
// are thin JSON wrappers.
//
// Failures are reported as [*NetworkError], [*TimeoutError] or
// [*StreamError]. Nothing is retried.
package client
