package domain

import (
	"strings"
	"time"
)

// MembershipSeparator joins organization codes in the legacy joined_ngo column.
const MembershipSeparator = "-"

// Membership is the set of organization codes a volunteer belongs to.
// Order is preserved from the source row and codes are unique.
type Membership []string

// ParseMembership splits a joined_ngo value into exact codes.
func ParseMembership(joined string) Membership {
	var m Membership
	for _, part := range strings.Split(joined, MembershipSeparator) {
		code := strings.TrimSpace(part)
		if code == "" || m.Contains(code) {
			continue
		}
		m = append(m, code)
	}
	return m
}

// Contains reports whether code is one of the member codes. Matching is exact,
// so "NGO1" is not a member of "NGO10".
func (m Membership) Contains(code string) bool {
	for _, c := range m {
		if c == code {
			return true
		}
	}
	return false
}

func (m Membership) Add(code string) Membership {
	code = strings.TrimSpace(code)
	if code == "" || m.Contains(code) {
		return m
	}
	out := make(Membership, 0, len(m)+1)
	out = append(out, m...)
	return append(out, code)
}

func (m Membership) Remove(code string) Membership {
	out := make(Membership, 0, len(m))
	for _, c := range m {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}

func (m Membership) String() string {
	return strings.Join(m, MembershipSeparator)
}

type Volunteer struct {
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Gender     string     `json:"gender"`
	BirthDate  string     `json:"birthdate"`
	Location   string     `json:"location"`
	Membership Membership `json:"joined_ngo"`
	CreatedOn  time.Time  `json:"created_on"`
}

func (v Volunteer) IsGender(gender string) bool {
	return strings.EqualFold(strings.TrimSpace(v.Gender), gender)
}
