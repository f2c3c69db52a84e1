package bot

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"tracker-bot/config"
	"tracker-bot/database"
	"tracker-bot/pshb"
	"tracker-bot/publisher"
	"tracker-bot/tracker"
	"tracker-bot/utils"
	"tracker-bot/web"
)

// Bot encapsulates the bot's state and its collaborators.
type Bot struct {
	Session   *discordgo.Session
	DB        *sql.DB
	Subs      *database.SubscriptionDB
	Tokens    *database.TokenDB
	Auth      *utils.Auth
	Tracker   *tracker.Tracker
	Hub       pshb.HubSubscriber
	Publisher publisher.Poster
	Server    *web.Server
}

// NewBot creates and initializes a new Bot instance with all of its
// collaborators wired together.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}
	if viper.GetString("app.baseUrl") == "" {
		return nil, fmt.Errorf("app.baseUrl is required; the hub needs a reachable callback address")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	db, err := database.InitDB(viper.GetString("database.path"))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	subs := &database.SubscriptionDB{DB: db}
	tokens := &database.TokenDB{DB: db}
	hub := pshb.NewHTTPHubSubscriber()

	b := &Bot{
		Session:   dg,
		DB:        db,
		Subs:      subs,
		Tokens:    tokens,
		Auth:      utils.NewAuth(tokens),
		Tracker:   tracker.New(subs, hub),
		Hub:       hub,
		Publisher: publisher.NewClient(),
	}
	b.Server = web.NewServer(subs, dg)
	return b, nil
}

// Start opens the chat session, starts the callback server and the lease
// renewal scheduler.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	utils.InitLogger(b.Session)

	b.Server.Start()
	startScheduler(b.Tracker, b.Subs)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the scheduler, the callback server, the chat
// session and the database.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Server != nil {
		b.Server.Stop()
	}
	if b.Session != nil {
		b.Session.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot)) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
