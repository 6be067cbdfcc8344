package model

const (
	// LegacySelfSenderID marks messages written by whoever is viewing the seed.
	LegacySelfSenderID = "me"
	// DefaultUserPlaceholder replaces LegacySelfSenderID for anonymous viewers.
	DefaultUserPlaceholder = "current-user"
)

type LegacyConversation struct {
	ID        string          `yaml:"id"`
	BookID    string          `yaml:"book_id"`
	Companion LegacyCompanion `yaml:"companion"`
	Messages  []LegacyMessage `yaml:"messages"`
}

type LegacyCompanion struct {
	ID        string `yaml:"id"`
	Nickname  string `yaml:"nickname"`
	AvatarURL string `yaml:"avatar_url"`
}

type LegacyMessage struct {
	ID              string           `yaml:"id"`
	SenderID        string           `yaml:"sender_id"`
	Text            string           `yaml:"text"`
	Timestamp       string           `yaml:"timestamp"`
	IsRead          bool             `yaml:"is_read"`
	Type            MessageType      `yaml:"type"`
	ExchangeRequest *ExchangeRequest `yaml:"exchange_request"`
}
