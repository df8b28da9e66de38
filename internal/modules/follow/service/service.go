package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	followRepo "github.com/sociable-dev/sociable/internal/modules/follow/repository"
	notifService "github.com/sociable-dev/sociable/internal/modules/notification/service"
	userRepo "github.com/sociable-dev/sociable/internal/modules/user/repository"
	"github.com/sociable-dev/sociable/pkg/apperror"
)

type FollowService interface {
	Follow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error
	Unfollow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error
	Followers(ctx context.Context, username string) ([]entity.User, error)
	Following(ctx context.Context, username string) ([]entity.User, error)
}

type followService struct {
	followRepo          followRepo.FollowRepository
	userRepo            userRepo.UserRepository
	notificationService notifService.NotificationService
}

func NewFollowService(followRepo followRepo.FollowRepository, userRepo userRepo.UserRepository, notificationService notifService.NotificationService) FollowService {
	return &followService{
		followRepo:          followRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *followService) Follow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}

	if followee.ID == followerID {
		return fmt.Errorf("you cannot follow yourself: %w", apperror.ErrBadRequest)
	}

	created, err := s.followRepo.Follow(ctx, followerID, followee.ID)
	if err != nil {
		return err
	}

	// Only a fresh edge notifies; re-following silently keeps the edge
	if created && s.notificationService != nil {
		if err := s.notificationService.Notify(ctx, entity.NotificationFollow, followerID, followee.ID, "/user/"+followeeUsername); err != nil {
			return err
		}
	}

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID uuid.UUID, followeeUsername string) error {
	followee, err := s.userRepo.FindByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}

	return s.followRepo.Unfollow(ctx, followerID, followee.ID)
}

func (s *followService) Followers(ctx context.Context, username string) ([]entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, user.ID)
}

func (s *followService) Following(ctx context.Context, username string) ([]entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, user.ID)
}
