// Package chat runs the free-form advisor conversation.
//
// A Conversation is a plain value owned by the caller; Session.Reply never
// keeps state between calls. Only the most recent messages are sent to the
// text generator, rendered one per line as "ROLE: content".
package chat
