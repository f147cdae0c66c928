package core

import "strings"

// Mailboxes excluded from triage by name, lower-cased
var excludedMailboxNames = map[string]bool{
	"marketing": true,
	"blackhole": true,
	"spam":      true,
	"junk":      true,
	"trash":     true,
}

// Mailboxes excluded from triage by role, lower-cased
var excludedMailboxRoles = map[string]bool{
	"spam":  true,
	"junk":  true,
	"trash": true,
}

// ExcludedMailboxIDs returns the deduplicated ids of mailboxes that must
// not contribute emails to triage: junk-like folders matched by name or
// by role, case-insensitively.
func ExcludedMailboxIDs(mailboxes []Mailbox) []string {
	seen := make(map[string]bool, len(mailboxes))
	var ids []string

	for _, mb := range mailboxes {
		name := strings.ToLower(mb.Name)
		role := strings.ToLower(mb.Role)
		if !excludedMailboxNames[name] && !excludedMailboxRoles[role] {
			continue
		}
		if seen[mb.ID] {
			continue
		}
		seen[mb.ID] = true
		ids = append(ids, mb.ID)
	}

	return ids
}
