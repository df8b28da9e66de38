package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	notifRepo "github.com/sociable-dev/sociable/internal/modules/notification/repository"
)

// Dispatcher is the realtime side-channel: best effort, never a source of truth.
type Dispatcher interface {
	Send(userID uuid.UUID, event string, payload any)
}

// Push is the payload carried by a newNotification event.
type Push struct {
	Notification *entity.Notification `json:"notification"`
	Count        int                  `json:"count"`
}

type NotificationService interface {
	// Notify collapses repeated identical actions into one live notification.
	// Only a first insert pushes a newNotification event; a bump is silent.
	Notify(ctx context.Context, notifType string, initiatorID, targetID uuid.UUID, link string) error
	GetNotifications(ctx context.Context, targetID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, targetID uuid.UUID) error
	UnreadCount(ctx context.Context, targetID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo       notifRepo.NotificationRepository
	dispatcher Dispatcher
}

func NewNotificationService(repo notifRepo.NotificationRepository, dispatcher Dispatcher) NotificationService {
	return &notificationService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

func (s *notificationService) Notify(ctx context.Context, notifType string, initiatorID, targetID uuid.UUID, link string) error {
	// Never notify users about their own actions
	if initiatorID == targetID {
		return nil
	}

	notification := &entity.Notification{
		Type:        notifType,
		InitiatorID: initiatorID,
		TargetID:    targetID,
		Link:        link,
	}

	created, err := s.repo.Upsert(ctx, notification)
	if err != nil {
		return err
	}

	// A bump refreshes recency without renotifying
	if !created {
		return nil
	}

	full, err := s.repo.FindByID(ctx, notification.ID)
	if err != nil {
		// The record exists; only the push payload enrichment failed
		log.Printf("failed to load notification %s for push: %v", notification.ID, err)
		full = notification
	}

	if s.dispatcher != nil {
		s.dispatcher.Send(targetID, "newNotification", Push{Notification: full, Count: 1})
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, targetID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByTargetID(ctx, targetID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, targetID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, targetID)
}

func (s *notificationService) UnreadCount(ctx context.Context, targetID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, targetID)
}
