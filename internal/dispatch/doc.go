// Package dispatch implements the Message Dispatcher component.
//
// Inbound gateway frames are JSON envelopes with a "module" discriminator.
// Envelopes whose module is "message" carry a content object (sometimes
// JSON-encoded as a string) whose "event" field selects a handler from a
// closed table of known event kinds. Everything else is ignored.
package dispatch
