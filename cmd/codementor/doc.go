// Codementor is a command-line client for an AI code review service.
//
// It submits source code for review and renders the vulnerabilities, quality
// metrics and suggestions that come back, either in one response or live as
// the service streams progress events.
//
// Usage:
//
//	codementor review main.py                 # review a file
//	codementor review --stream --lang go -    # stream a review of stdin
//	codementor shell                          # interactive session with history
//	codementor watch handler.ts               # re-review on every save
//	codementor remote history --limit 10      # the service's review log
//	codementor hook install --fail-on high    # gate commits on findings
package main
