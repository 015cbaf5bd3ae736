package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

// ViewUserCommand returns the /viewuser command definition and handler
func ViewUserCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "viewuser",
		Description: "Show the PulseHub account linked to your Discord account",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}

		user := getInteractionUser(i)

		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		profile, err := client.GetAccountByDiscord(ctx, user.ID)
		if err != nil {
			if StatusOf(err) == http.StatusNotFound {
				respondText(s, i, MsgNotLinked)
				return
			}
			slog.Error("Account lookup failed", "discord_id", user.ID, "error", err)
			respondText(s, i, MsgGenericError)
			return
		}

		sendEmbed(s, i, profileEmbed(profile))
	}

	return cmd, handler
}

// profileEmbed renders a profile; the join date uses Discord's relative timestamp markup
func profileEmbed(p *domain.AccountProfile) *discordgo.MessageEmbed {
	embed := createEmbed(cases.Title(language.English).String(p.Username)+"'s account", "", ColorInfo)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Username", Value: p.Username, Inline: true},
		{Name: "Email", Value: p.Email, Inline: true},
		{Name: "Joined", Value: fmt.Sprintf("<t:%d:R>", p.CreatedAt.Unix())},
	}
	return embed
}
