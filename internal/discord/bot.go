package discord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
)

// BanReportTimeout bounds the handling of a single guild ban event
const BanReportTimeout = 10 * time.Second

// BanReporter forwards guild bans to the server
type BanReporter interface {
	ReportBan(ctx context.Context, report BanReport) (*BanReportResult, error)
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	Client   *APIClient
	AppID    string
	GuildID  string
	Registry *CommandRegistry

	bans          BanReporter
	reportTimeout time.Duration
}

// Config holds the bot configuration
type Config struct {
	Token   string
	AppID   string
	GuildID string // optional; scopes command registration to one guild
	APIURL  string
	APIKey  string
}

// New creates a new Discord bot
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentGuildModeration

	client := NewAPIClient(cfg.APIURL, cfg.APIKey)
	return &Bot{
		Session:       s,
		Client:        client,
		AppID:         cfg.AppID,
		GuildID:       cfg.GuildID,
		Registry:      NewCommandRegistry(),
		bans:          client,
		reportTimeout: BanReportTimeout,
	}, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.guildBanAdd)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Warn("Discord session close failed", "error", err)
	}
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.Registry != nil {
		b.Registry.Handle(s, i, b.Client)
	}
}

// guildBanAdd hands each ban to its own goroutine so a slow API never stalls
// the gateway event loop.
func (b *Bot) guildBanAdd(s *discordgo.Session, e *discordgo.GuildBanAdd) {
	if e == nil || e.User == nil {
		slog.Warn("Guild ban event without a user, ignoring")
		return
	}
	go b.reportBan(e.GuildID, e.User.ID)
}

// reportBan forwards one ban to the server. Errors are logged and never
// propagate; a panic is recovered so one bad event cannot kill the bot.
func (b *Bot) reportBan(guildID, discordID string) {
	log := slog.With("guild_id", guildID, "discord_id", discordID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Ban report panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), b.reportTimeout)
	defer cancel()

	result, err := b.bans.ReportBan(ctx, BanReport{DiscordID: discordID, GuildID: guildID})
	if err != nil {
		log.Error("Failed to report guild ban", "error", err)
		return
	}

	log.Info("Guild ban reported", "outcome", result.Outcome, "account_id", result.AccountID)
}
