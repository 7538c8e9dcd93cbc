// Package output formats review results for display or machine consumption.
//
// Five formats are supported:
//   - text     human-readable terminal output (default)
//   - json     the review result as returned by the service
//   - markdown PR-comment-friendly with collapsible sections per severity
//   - yaml     the review result as YAML
//   - sarif    SARIF v2.1.0 for upload to code scanning tools
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*Report]. [WriteHistory],
// [WriteAnalytics] and [WriteState] render the session views.
package output
