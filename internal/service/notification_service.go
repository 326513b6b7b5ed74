package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository"
	"ai-filevault-be/pkg/events"
	pktNats "ai-filevault-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	switch typeCode {
	case "ASSISTANT_TURN_COMPLETED":
		return s.handleTurnCompleted(ctx, event)
	case "FILE_DELETED":
		return s.handleFileDeleted(ctx, event)
	case "SYSTEM_BROADCAST":
		return s.handleBroadcast(ctx, event)
	default:
		// Unknown events are dropped, not retried
		return nil
	}
}

func (s *NotificationService) handleTurnCompleted(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userID, ok := parseUserID(payload)
	if !ok {
		return nil
	}

	actionType, _ := payload["action_type"].(string)
	if actionType == "" {
		// Conversational turns produce no feed entry
		return nil
	}

	success, _ := payload["success"].(bool)
	title := "Assistant action completed"
	if !success {
		title = "Assistant action failed"
	}

	notification := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  "ASSISTANT_TURN_COMPLETED",
		Title:     title,
		Message:   fmt.Sprintf("The assistant performed '%s'.", actionType),
		Metadata:  marshalMetadata(payload),
		CreatedAt: time.Now(),
	}
	return s.persistAndDeliver(ctx, notification)
}

func (s *NotificationService) handleFileDeleted(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userID, ok := parseUserID(payload)
	if !ok {
		return nil
	}

	fileName, _ := payload["file_name"].(string)
	notification := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  "FILE_DELETED",
		Title:     "File deleted",
		Message:   fmt.Sprintf("'%s' was permanently deleted.", fileName),
		Metadata:  marshalMetadata(payload),
		CreatedAt: time.Now(),
	}
	return s.persistAndDeliver(ctx, notification)
}

func (s *NotificationService) handleBroadcast(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	title, _ := payload["title"].(string)
	message, _ := payload["message"].(string)
	if title == "" || message == "" {
		return nil
	}

	notification := model.Notification{
		ID:        uuid.New(),
		UserID:    uuid.Nil,
		TypeCode:  "SYSTEM_BROADCAST",
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if s.delivery != nil {
		s.delivery.Broadcast(notification)
	}
	return nil
}

func (s *NotificationService) persistAndDeliver(ctx context.Context, notification model.Notification) error {
	if err := s.repo.CreateNotification(ctx, &notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{"error": err.Error()})
		return err
	}
	if s.delivery != nil {
		s.delivery.Send(notification.UserID, notification)
	}
	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func parseUserID(payload map[string]interface{}) (uuid.UUID, bool) {
	raw, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func marshalMetadata(payload map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
