package models

import "strings"

// TokenPair is the access/refresh credential pair. Both values are opaque.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete reports whether both tokens are present. A pair with only one
// token counts as unauthenticated.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// User is the identity returned by the token verification endpoint.
type User struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Initials returns up to two upper-case initials of the user's name.
func (u User) Initials() string {
	var out []rune
	word := true
	for _, r := range u.Name {
		if r == ' ' {
			word = true
			continue
		}
		if word && len(out) < 2 {
			out = append(out, r)
		}
		word = false
	}
	return strings.ToUpper(string(out))
}
