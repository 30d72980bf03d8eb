package policy

import "strings"

// MailboxFromAddress extracts the Inbucket mailbox name from an email address.  Inbucket creates
// one mailbox per local part, so "alice@example.com" maps to "alice".  An address without an "@"
// is returned unchanged.
func MailboxFromAddress(address string) string {
	local, _, _ := strings.Cut(address, "@")
	return local
}
