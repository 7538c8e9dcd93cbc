// Package redact removes secrets from source code before it is sent to the
// review service.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private key blocks, AWS access key IDs and secret access keys, bearer
// tokens, database connection strings with inline passwords, and
// provider-specific tokens (Anthropic, OpenAI, GitHub, Slack).
//
// Files whose paths match configured glob patterns are refused outright
// rather than scanned; see [ShouldRedactPath].
package redact
