package models

// SocialAccount is one platform entry inside a KOL profile.
type SocialAccount struct {
	Handle    string `json:"handle" validate:"required"`
	Followers int64  `json:"followers" validate:"gte=0"`
}

// KOLProfile is a Key Opinion Leader onboarding submission.
// Stored under kol:<wallet>, with kol:username:<username> holding the
// wallet address as a uniqueness marker.
type KOLProfile struct {
	WalletAddress  string                   `json:"walletAddress" validate:"required"`
	Username       string                   `json:"username" validate:"required"`
	SocialAccounts map[string]SocialAccount `json:"socialAccounts"`
	ActiveChain    string                   `json:"activeChain"`
	TargetCountry  string                   `json:"targetCountry"`
	ContentTypes   []string                 `json:"contentTypes"`
	Platforms      []string                 `json:"platforms"`
	CreatedAt      int64                    `json:"createdAt"`
}

// KOLFilter narrows a KOL listing. Zero-valued fields match everything.
type KOLFilter struct {
	Chain       string
	Country     string
	ContentType string
	Platform    string
}

// Matches reports whether the profile satisfies every set filter field.
func (f KOLFilter) Matches(kol *KOLProfile) bool {
	if kol == nil {
		return false
	}
	if f.Chain != "" && kol.ActiveChain != f.Chain {
		return false
	}
	if f.Country != "" && kol.TargetCountry != f.Country {
		return false
	}
	if f.ContentType != "" && !contains(kol.ContentTypes, f.ContentType) {
		return false
	}
	if f.Platform != "" && !contains(kol.Platforms, f.Platform) {
		return false
	}
	return true
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
