// Package notifier delivers homework status messages to the configured chat.
//
// One Send is one outbound message. The service never retries; a failed
// delivery is logged, journaled (when a journal is configured) and returned
// to the caller as a *DeliveryError.
//
// # History
//
// For debugging and operator visibility, the service keeps a small in-memory
// history of recent delivery attempts.
package notifier
