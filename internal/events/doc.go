// Package events carries study-session lifecycle notifications from the
// session service to interested handlers without coupling the two.
//
// Handlers are registered on an EventEmitter and receive every SessionEvent
// synchronously, in registration order.
package events
