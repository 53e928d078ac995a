// Package reconcile merges wallet-linked user records with OAuth-verified
// Twitter profiles into one de-duplicated list for the admin dashboard.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/alisharafiiii/nabulines-backup/models"
)

const platformTwitter = "twitter"

// Merge combines wallet-linked users and verified Twitter profiles, keyed
// by lowercased username/screen name.
//
// A verified profile matching an existing user (case-insensitive) updates
// that user's twitter entry in place, or appends one, and carries the
// profile's display name onto the record. A profile with no matching user
// synthesizes a record with an empty address. A second pass
// backfills addresses lost during the merge from the original wallet list,
// and records with neither an address nor social data are dropped.
//
// The output carries no ordering guarantee; use SortByFollowers when the
// caller needs one.
func Merge(users []models.User, verified []models.VerifiedTwitterUser) []models.User {
	merged := make(map[string]*models.User, len(users)+len(verified))

	for i := range users {
		user := users[i]
		key := strings.ToLower(user.Username)
		if key == "" {
			continue
		}
		copied := user
		copied.SocialData = dedupePlatforms(user.SocialData)
		merged[key] = &copied
	}

	now := time.Now().UnixMilli()
	for _, profile := range verified {
		key := strings.ToLower(profile.ScreenName)
		if key == "" {
			continue
		}

		entry := models.SocialEntry{
			Platform:  platformTwitter,
			Handle:    profile.ScreenName,
			Followers: profile.FollowersCount,
			Timestamp: now,
		}
		if profile.Timestamp != 0 {
			entry.Timestamp = profile.Timestamp
		}

		displayName := profile.Name
		if displayName == "" {
			displayName = profile.ScreenName
		}

		user, ok := merged[key]
		if !ok {
			merged[key] = &models.User{
				Address:     "",
				DisplayName: displayName,
				Username:    profile.ScreenName,
				SocialData:  []models.SocialEntry{entry},
			}
			continue
		}

		user.DisplayName = displayName

		updated := false
		for i := range user.SocialData {
			if user.SocialData[i].Platform == platformTwitter {
				user.SocialData[i].Followers = entry.Followers
				user.SocialData[i].Timestamp = entry.Timestamp
				if user.SocialData[i].Handle == "" {
					user.SocialData[i].Handle = entry.Handle
				}
				updated = true
				break
			}
		}
		if !updated {
			user.SocialData = append(user.SocialData, entry)
		}
	}

	// Recovery pass: re-scan the wallet list for addresses lost above.
	for key, user := range merged {
		if user.Address != "" {
			continue
		}
		for i := range users {
			if strings.EqualFold(users[i].Username, key) && users[i].Address != "" {
				user.Address = users[i].Address
				break
			}
		}
	}

	result := make([]models.User, 0, len(merged))
	for _, user := range merged {
		if user.Address == "" && len(user.SocialData) == 0 {
			continue
		}
		result = append(result, *user)
	}

	return result
}

// SortByFollowers orders records by total follower count descending,
// breaking ties by username for a stable listing.
func SortByFollowers(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		ti, tj := totalFollowers(users[i]), totalFollowers(users[j])
		if ti != tj {
			return ti > tj
		}
		return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
	})
}

func totalFollowers(user models.User) int64 {
	var total int64
	for _, entry := range user.SocialData {
		total += entry.Followers
	}
	return total
}

// dedupePlatforms keeps the last entry per platform, preserving order of
// first appearance.
func dedupePlatforms(entries []models.SocialEntry) []models.SocialEntry {
	if len(entries) < 2 {
		return entries
	}

	index := make(map[string]int, len(entries))
	out := make([]models.SocialEntry, 0, len(entries))
	for _, entry := range entries {
		if i, ok := index[entry.Platform]; ok {
			out[i] = entry
			continue
		}
		index[entry.Platform] = len(out)
		out = append(out, entry)
	}

	return out
}
