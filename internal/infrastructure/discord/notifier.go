package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// maxMessageLength is the Discord limit for a single message.
const maxMessageLength = 2000

const truncatedSuffix = "\n...```"

// channelSender is the part of discordgo.Session the notifier uses.
type channelSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts messages to Discord channels through a bot account.
type Notifier struct {
	session channelSender
}

// NewNotifier creates a bot session. No gateway connection is opened; only
// the REST API is used.
func NewNotifier(botToken string) (*Notifier, error) {
	s, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &Notifier{session: s}, nil
}

func (n *Notifier) SendMessage(ctx context.Context, channelID, text string) error {
	if _, err := n.session.ChannelMessageSend(channelID, truncate(text), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	return nil
}

func truncate(text string) string {
	if len(text) <= maxMessageLength {
		return text
	}
	cut := maxMessageLength - len(truncatedSuffix)
	// do not split a multi-byte rune
	for cut > 0 && (text[cut]&0xC0) == 0x80 {
		cut--
	}
	return text[:cut] + truncatedSuffix
}
