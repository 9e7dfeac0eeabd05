// Package backend defines the client capability shared by all Claude
// backends (Anthropic API, claude CLI, hybrid fallback, Agent Teams CLI),
// along with the closed set of client modes and the resolver that maps a
// mode name to a constructed backend.
package backend
