package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CommandTimeout bounds the API work behind a single command
const CommandTimeout = 10 * time.Second

// LinkCommand returns the /link command definition and handler
func LinkCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "link",
		Description: "Link your Discord account to your PulseHub account",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "The link code shown on the website",
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}

		user := getInteractionUser(i)
		code := strings.TrimSpace(optionString(i, "code"))

		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		result, err := client.Link(ctx, code, user.ID)
		if err != nil {
			slog.Warn("Link command failed", "discord_id", user.ID, "error", err)
			respondText(s, i, linkErrorMessage(err))
			return
		}

		slog.Info("Discord account linked", "discord_id", user.ID, "username", result.Username)
		sendEmbed(s, i, createEmbed("Account linked", fmt.Sprintf(MsgLinkSuccess, result.Username), ColorSuccess))
	}

	return cmd, handler
}

// linkErrorMessage maps the server's answer onto a distinct user message
func linkErrorMessage(err error) string {
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return MsgLinkInvalidFormat
	case http.StatusNotFound:
		return MsgLinkCodeNotFound
	case http.StatusConflict:
		return MsgLinkAlreadyLinked
	case http.StatusGone:
		return MsgLinkCodeExpired
	default:
		return MsgGenericError
	}
}
