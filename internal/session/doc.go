// Package session drives reviews against the service and feeds every outcome
// into a state store. At most one streamed review is in flight per session:
// starting a new one cancels the previous stream and waits for it to wind
// down before opening the next.
package session
