package conditions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
)

// TelegramChecker verifies channel membership through the Bot API.
type TelegramChecker struct {
	bot *telego.Bot
}

// NewTelegramChecker creates a checker from a bot token. Returns an error if
// the token is rejected by the Bot API client.
func NewTelegramChecker(botToken string) (*TelegramChecker, error) {
	bot, err := telego.NewBot(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &TelegramChecker{bot: bot}, nil
}

// CheckChannelMembership reports whether the user is a member of the channel.
// channelID is either a numeric chat id or an "@username" handle.
func (t *TelegramChecker) CheckChannelMembership(ctx context.Context, userID int64, channelID string) (bool, error) {
	member, err := t.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: parseChatID(channelID),
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("getChatMember failed: %w", err)
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true, nil
	default:
		return false, nil
	}
}

func parseChatID(channelID string) telego.ChatID {
	if strings.HasPrefix(channelID, "@") {
		return telego.ChatID{Username: channelID}
	}
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return telego.ChatID{ID: id}
	}
	return telego.ChatID{Username: "@" + channelID}
}
