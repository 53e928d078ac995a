// Package events defines the event bus and the topics published after
// successful writes.
package events

// Topics published by the service.
const (
	TopicUserRegistered  = "user.registered"
	TopicSocialUpdated   = "social.updated"
	TopicTwitterVerified = "twitter.verified"
	TopicKOLOnboarded    = "kol.onboarded"
	TopicAdminCleared    = "admin.cleared"
)

// EventBusProvider selects the pub/sub transport backing the bus.
type EventBusProvider string

const (
	ProviderGoChannel EventBusProvider = "gochannel"
	ProviderRedis     EventBusProvider = "redisstream"
)

func (p EventBusProvider) String() string {
	return string(p)
}

func (p EventBusProvider) Valid() bool {
	switch p {
	case ProviderGoChannel, ProviderRedis:
		return true
	}
	return false
}
