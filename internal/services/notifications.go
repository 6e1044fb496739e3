package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"reflecto/internal/analytics"
	"reflecto/internal/utils"
)

// NotificationSender delivers digest messages to the configured user.
type NotificationSender interface {
	SendMessage(text string) error
}

type NotificationService struct {
	sender    NotificationSender
	analytics *analytics.Service
	userUID   string
}

func NewNotificationService(sender NotificationSender, analyticsService *analytics.Service, userUID string) *NotificationService {
	return &NotificationService{
		sender:    sender,
		analytics: analyticsService,
		userUID:   userUID,
	}
}

// SendJournalingReminder nudges the user in the evening if nothing was
// written today.
func (ns *NotificationService) SendJournalingReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := ns.analytics.GetSummary(ctx, ns.userUID, "7d")
	if err != nil {
		log.Printf("⚠️ Failed to check today's entries: %v", err)
		return
	}

	if summary.Streaks.Current > 0 {
		trends, err := ns.analytics.GetTrends(ctx, ns.userUID, "7d")
		if err == nil && len(trends.Series) > 0 {
			today := trends.Series[len(trends.Series)-1]
			if today.SentimentCounts.Total > 0 {
				return // already journaled today
			}
		}
	}

	message := "📝 No entry yet today. A few lines keep the streak alive!"
	if summary.Streaks.Current > 0 {
		message = fmt.Sprintf("📝 No entry yet today. Your %d-day streak is on the line!", summary.Streaks.Current)
	}

	if err := ns.sender.SendMessage(message); err != nil {
		log.Printf("❌ Failed to send reminder: %v", err)
	}
}

// SendDailyDigest sends the last-7-days summary for the configured user.
func (ns *NotificationService) SendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := ns.analytics.GetSummary(ctx, ns.userUID, "7d")
	if err != nil {
		log.Printf("⚠️ Failed to build daily digest: %v", err)
		return
	}

	message := FormatDigest(summary)
	if err := ns.sender.SendMessage(message); err != nil {
		log.Printf("❌ Failed to send digest: %v", err)
	}
}

// FormatDigest renders a summary into the digest message.
func FormatDigest(summary *analytics.Summary) string {
	if summary.TotalEntries == 0 {
		return fmt.Sprintf(
			"📊 <b>Digest for %s</b>\n\nNo entries in the last 7 days. Tomorrow is a fresh page! 🌅",
			utils.GetCurrentISTDate(),
		)
	}

	message := fmt.Sprintf(
		"📊 <b>Digest for %s</b>\n\n"+
			"📓 Entries this week: %d\n"+
			"🙂 Mood: %.1f/10\n"+
			"💼 Productivity: %.1f/10\n"+
			"⚡ Energy: %.1f/10\n"+
			"🔥 Streak: %d day(s), best %d\n",
		utils.GetCurrentISTDate(),
		summary.TotalEntries,
		summary.Averages.Mood,
		summary.Averages.Productivity,
		summary.Averages.Energy,
		summary.Streaks.Current,
		summary.Streaks.Best,
	)

	if summary.Highlights != nil && summary.Highlights.BestDay != nil {
		message += fmt.Sprintf("🌟 Best day: %s (%.1f)\n",
			summary.Highlights.BestDay.Date, summary.Highlights.BestDay.CombinedAvg)
	}

	return message
}
