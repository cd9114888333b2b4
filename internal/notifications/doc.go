// Package notifications publishes review pipeline events to an ntfy
// topic when one is configured. Each channel can be toggled
// independently; without a topic the service degrades to a noop so
// callers never need to guard their notification calls.
package notifications
