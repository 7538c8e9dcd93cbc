// Package store holds the client's application state.
//
// [State] is an immutable snapshot: the draft, the submission [Status]
// (a sealed variant of Idle, Submitting, Streaming, Succeeded and Failed),
// the current result, progress and error text, and the session history.
// [Reduce] is the pure transition function; it also implements the streaming
// update protocol, mapping each stream event tag to progress text and
// installing the result carried by the complete event. [Store] serializes
// dispatches and notifies subscribers.
package store
