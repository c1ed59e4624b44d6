package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/repos"
	"github.com/seojin-dev/moodshift-backend/internal/requestdata"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

type UserService interface {
	GetCurrentUser(ctx context.Context) (*types.User, error)
	UpdateCharacter(ctx context.Context, character string) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func currentUserID(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated",
			fmt.Errorf("no authenticated user in request context"))
	}
	return rd, nil
}

func (us *userService) GetCurrentUser(ctx context.Context) (*types.User, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateCharacter(ctx context.Context, character string) (*types.User, error) {
	rd, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	character = strings.ToLower(strings.TrimSpace(character))
	if !types.IsValidCharacter(character) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_character",
			fmt.Errorf("character must be one of %s", strings.Join(types.ValidCharacters, ", ")))
	}

	if err := us.userRepo.UpdateCharacter(ctx, nil, rd.UserID, character); err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}

	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	us.log.Info("Character updated", "user_id", rd.UserID.String(), "character", character)
	return user, nil
}
