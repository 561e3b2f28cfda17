// Package resolve maps user messages to stored voice record identities.
//
// Commands that act on an existing record can designate it in several
// ways. The Resolver tries each strategy in a fixed priority order:
//
//  1. an explicit trailing "#123" or "123" token in the command text
//  2. a reply to the original voice message (matched by external ref)
//  3. a reply to a summary message whose text starts with "#123"
//
// A message that matches no strategy yields ErrUnresolvable. A strategy
// that matches but names a record that does not exist yields
// storage.ErrNotFound, so callers can tell the two apart.
package resolve
