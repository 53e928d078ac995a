package models

// Identity is a wallet address bound to a claimed username.
// Stored as the two-way pair address:<wallet> -> username and
// username:<name> -> wallet.
type Identity struct {
	Address  string `json:"address" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// SocialEntry is one linked platform account for a user.
// The social:<username> key holds an ordered list of these with at most
// one entry per platform.
type SocialEntry struct {
	Platform  string `json:"platform" validate:"required"`
	Handle    string `json:"handle" validate:"required"`
	Followers int64  `json:"followers" validate:"gte=0"`
	Timestamp int64  `json:"timestamp"`
}

// User is the admin-facing view of a wallet-linked creator: the identity
// pair plus everything under social:<username>.
type User struct {
	Address string `json:"address"`
	// DisplayName comes from the verified Twitter profile; empty until
	// the user completes OAuth verification.
	DisplayName string        `json:"displayName,omitempty"`
	Username    string        `json:"username"`
	SocialData  []SocialEntry `json:"socialData"`
}
