package services

import (
	"reflecto/internal/ai"
	"reflecto/internal/analytics"
	"reflecto/internal/database"
)

type ServiceManager struct {
	Journal      *JournalService
	Analytics    *analytics.Service
	Notification *NotificationService
	repository   *database.Repository
}

func NewServiceManager(db *database.Database, advisor *ai.Advisor) *ServiceManager {
	repo := database.NewRepository(db)

	return &ServiceManager{
		Journal:      NewJournalService(repo, advisor),
		Analytics:    analytics.NewService(repo),
		Notification: nil,
		repository:   repo,
	}
}

// SetNotificationSender wires the sender late: the bot needs the services to
// answer commands, and the notification service needs the bot to deliver.
func (sm *ServiceManager) SetNotificationSender(sender NotificationSender, userUID string) {
	sm.Notification = NewNotificationService(sender, sm.Analytics, userUID)
}
