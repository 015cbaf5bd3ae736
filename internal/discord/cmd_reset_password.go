package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// MinResetPasswordLength is the shortest password /reset-password accepts
const MinResetPasswordLength = 6

// ResetPasswordCommand returns the /reset-password command definition and handler
func ResetPasswordCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minLength := MinResetPasswordLength
	cmd := &discordgo.ApplicationCommand{
		Name:        "reset-password",
		Description: "Set a new password on your linked PulseHub account",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "new_password",
				Description: "Your new password",
				Required:    true,
				MinLength:   &minLength,
				MaxLength:   72,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferEphemeral(s, i) {
			return
		}

		user := getInteractionUser(i)
		password := optionString(i, "new_password")
		if utf8.RuneCountInString(password) < MinResetPasswordLength {
			respondText(s, i, fmt.Sprintf(MsgPasswordTooShort, MinResetPasswordLength))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		if err := client.ResetPassword(ctx, user.ID, password); err != nil {
			slog.Warn("Password reset failed", "discord_id", user.ID, "error", err)
			respondText(s, i, resetErrorMessage(err))
			return
		}

		slog.Info("Password reset via Discord", "discord_id", user.ID)
		respondText(s, i, MsgPasswordReset)
	}

	return cmd, handler
}

func resetErrorMessage(err error) string {
	switch StatusOf(err) {
	case http.StatusNotFound:
		return MsgNotLinked
	case http.StatusBadRequest:
		return fmt.Sprintf(MsgPasswordTooShort, MinResetPasswordLength)
	case http.StatusForbidden:
		return MsgPasswordResetDenied
	default:
		return MsgGenericError
	}
}
