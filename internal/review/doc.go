// Package review defines the data model shared by the codementor client.
//
// It holds the request and result types exchanged with the analysis service,
// the stream event envelope, severity and priority ranking, the supported
// language table, request validation, and derivation of session history
// entries from completed results.
package review
