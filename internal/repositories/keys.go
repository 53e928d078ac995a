package repositories

import "strings"

// Key prefixes for the shared key-value store. Every persisted record in
// the system lives under one of these.
const (
	prefixAddress     = "address:"
	prefixUsername    = "username:"
	prefixSocial      = "social:"
	prefixTwitterUser = "twitter:user:"
	prefixTwitterTemp = "twitter:temp:"
	prefixKOL         = "kol:"
	prefixKOLUsername = "kol:username:"
)

func addressKey(address string) string    { return prefixAddress + address }
func usernameKey(username string) string  { return prefixUsername + username }
func socialKey(username string) string    { return prefixSocial + username }
func twitterTempKey(token string) string  { return prefixTwitterTemp + token }
func kolKey(wallet string) string         { return prefixKOL + wallet }
func kolUsernameKey(username string) string { return prefixKOLUsername + username }

// twitterUserKey is the canonical key for verified Twitter profiles.
// Screen names are case-insensitive on Twitter, so the key is lowercased.
func twitterUserKey(screenName string) string {
	return prefixTwitterUser + strings.ToLower(screenName)
}
