package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// AuditReasonResolver reads ban reasons from a guild's audit log over the
// Discord REST API. It never opens a gateway connection.
type AuditReasonResolver struct {
	session      *discordgo.Session
	defaultGuild string
}

// NewAuditReasonResolver creates a resolver authenticated with a bot token.
// defaultGuild is used when a ban event carries no guild id.
func NewAuditReasonResolver(token, defaultGuild string) (*AuditReasonResolver, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return NewAuditReasonResolverWithSession(s, defaultGuild), nil
}

// NewAuditReasonResolverWithSession wraps an existing session
func NewAuditReasonResolverWithSession(s *discordgo.Session, defaultGuild string) *AuditReasonResolver {
	return &AuditReasonResolver{session: s, defaultGuild: defaultGuild}
}

// ResolveBanReason returns the reason on the most recent MEMBER_BAN_ADD entry
// when that entry targets discordID. Anything else yields "".
func (r *AuditReasonResolver) ResolveBanReason(ctx context.Context, guildID, discordID string) (string, error) {
	if guildID == "" {
		guildID = r.defaultGuild
	}
	if guildID == "" {
		return "", nil
	}

	log, err := r.session.GuildAuditLog(guildID, "", "", int(discordgo.AuditLogActionMemberBanAdd), 1, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch audit log: %w", err)
	}
	if log == nil || len(log.AuditLogEntries) == 0 {
		return "", nil
	}

	entry := log.AuditLogEntries[0]
	if entry == nil || entry.TargetID != discordID {
		return "", nil
	}
	return strings.TrimSpace(entry.Reason), nil
}

// Close releases the underlying session
func (r *AuditReasonResolver) Close() error {
	return r.session.Close()
}
