package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"reflecto/internal/services"
	"reflecto/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is a single-chat digest bot: it delivers reminders and summaries for
// one configured user and answers a handful of analytics commands.
type Bot struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	userUID  string
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message)
}

func NewBot(token string, chatID int64, userUID string, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	bot := &Bot{
		bot:      botAPI,
		chatID:   chatID,
		userUID:  userUID,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message)),
	}

	bot.registerHandlers()
	log.Printf("🤖 Bot initialized: %s", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/summary"] = b.handleSummary
	b.handlers["/streak"] = b.handleStreak
	b.handlers["/help"] = b.handleHelp
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		b.SendMessage("⛔ Access denied")
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) == 0 {
		return
	}

	if handler, ok := b.handlers[fields[0]]; ok {
		handler(update.Message)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	b.SendMessage(fmt.Sprintf(
		"📓 <b>Reflecto</b>\n\nDigest bot is up for user <code>%s</code>.\n\n"+
			"Commands:\n"+
			"/summary - last 7 days overview\n"+
			"/streak - journaling streak\n"+
			"/help - this list",
		b.userUID,
	))
}

func (b *Bot) handleSummary(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := b.services.Analytics.GetSummary(ctx, b.userUID, dateRangeArg(msg.Text))
	if err != nil {
		b.SendMessage(fmt.Sprintf("❌ Failed to build summary: %v", err))
		return
	}

	b.SendMessage(services.FormatDigest(summary))
}

func (b *Bot) handleStreak(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := b.services.Analytics.GetSummary(ctx, b.userUID, "30d")
	if err != nil {
		b.SendMessage(fmt.Sprintf("❌ Failed to check streak: %v", err))
		return
	}

	if summary.Streaks.Current == 0 {
		b.SendMessage("😴 No active streak. Today is a good day to start one!")
		return
	}

	b.SendMessage(fmt.Sprintf(
		"🔥 Current streak: <b>%d day(s)</b>\n🏆 Best in the last 30 days: %d\n\n%s",
		summary.Streaks.Current,
		summary.Streaks.Best,
		utils.GetTimezoneInfo(),
	))
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.handleStart(msg)
}

// dateRangeArg extracts an optional range key from a command like
// "/summary 30d"; the analytics engine rejects bad keys itself.
func dateRangeArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 1 {
		return fields[1]
	}
	return "7d"
}
