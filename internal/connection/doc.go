// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Fetches a fresh access token for every connection attempt
//   - Dials the event gateway with the token on the URL
//   - Runs one Session per attempt: receive loop, outbound forwarder, heartbeat
//   - Serializes all outbound frames through a bounded Relay (single writer)
//   - Fails fast by default; reconnects only when a reconnect policy is configured
package connection
