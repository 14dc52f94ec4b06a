package identity

import "strings"

// AllowList restricts sign-up to listed addresses and domains. A nil or
// empty AllowList admits everyone.
type AllowList struct {
	emails  map[string]struct{}
	domains map[string]struct{}
}

// NewAllowList builds an allow-list. Domains may be given with or without
// a leading "@".
func NewAllowList(emails, domains []string) *AllowList {
	l := &AllowList{
		emails:  make(map[string]struct{}, len(emails)),
		domains: make(map[string]struct{}, len(domains)),
	}
	for _, e := range emails {
		if e = NormalizeEmail(e); e != "" {
			l.emails[e] = struct{}{}
		}
	}
	for _, d := range domains {
		d = strings.TrimPrefix(NormalizeEmail(d), "@")
		if d != "" {
			l.domains[d] = struct{}{}
		}
	}
	return l
}

// IsOpen reports whether the list admits every address
func (l *AllowList) IsOpen() bool {
	return l == nil || (len(l.emails) == 0 && len(l.domains) == 0)
}

// Allows reports whether email may sign up
func (l *AllowList) Allows(email string) bool {
	if l.IsOpen() {
		return true
	}
	email = NormalizeEmail(email)
	if _, ok := l.emails[email]; ok {
		return true
	}
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	_, ok := l.domains[domain]
	return ok
}

// Size returns the number of entries
func (l *AllowList) Size() int {
	if l == nil {
		return 0
	}
	return len(l.emails) + len(l.domains)
}
