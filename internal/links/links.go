// Package links builds and parses the shareable proposal URLs.
//
// Two shapes exist: stored proposals live at /p/{id}; the older personal
// links carry both names in the query (/?from=Romeo&to=Juliet) and need no
// account or database record.
package links

import (
	"net/url"
	"strings"
)

const (
	ProposalPathPrefix = "/p/"

	fromParam = "from"
	toParam   = "to"
)

// ProposalURL returns the share URL of a stored proposal.
func ProposalURL(base, id string) string {
	return strings.TrimRight(base, "/") + ProposalPathPrefix + url.PathEscape(id)
}

// PersonalURL returns a legacy personal link for the two names.
func PersonalURL(base, from, to string) string {
	q := url.Values{}
	q.Set(fromParam, from)
	q.Set(toParam, to)
	return strings.TrimRight(base, "/") + "/?" + q.Encode()
}

// ParsePersonal extracts the names of a personal link. ok is false unless
// both names are present and non-blank.
func ParsePersonal(q url.Values) (from, to string, ok bool) {
	from = strings.TrimSpace(q.Get(fromParam))
	to = strings.TrimSpace(q.Get(toParam))
	return from, to, from != "" && to != ""
}
