package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gynergy/internal/gamification"
	"gynergy/internal/models/request_models"
	resp "gynergy/internal/models/response_models"
	"gynergy/internal/repositories"
	"gynergy/pkg/utils"
)

type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*resp.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.ProfileResponse, error)
	Progress(ctx context.Context, userID uuid.UUID) (*resp.ProgressResponse, error)
}

type ProfileService struct {
	accountRepo repositories.AccountRepository
}

func NewProfileService(accountRepo repositories.AccountRepository) ProfileServiceInterface {
	return &ProfileService{accountRepo: accountRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*resp.ProfileResponse, error) {
	account, err := accountOrUnauthenticated(ctx, s.accountRepo, userID)
	if err != nil {
		return nil, err
	}
	out := ToProfileResponse(account)
	return &out, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*resp.ProfileResponse, error) {
	account, err := accountOrUnauthenticated(ctx, s.accountRepo, userID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		account.DisplayName = strings.TrimSpace(*request.Name)
	}
	if request.ProfilePicture != nil {
		pic := strings.TrimSpace(*request.ProfilePicture)
		if pic != "" && !utils.IsValidImageURL(pic) {
			return nil, fmt.Errorf("%w: Invalid profile picture URL", utils.ErrValidation)
		}
		account.AvatarURL = pic
	}
	if request.Email != nil {
		email := normalizeEmail(*request.Email)
		if !utils.IsValidEmail(email) {
			return nil, fmt.Errorf("%w: Invalid email format", utils.ErrValidation)
		}
		if email != account.Email {
			other, err := s.accountRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
			}
			if other != nil && other.ID != account.ID {
				return nil, utils.ErrEmailAlreadyExists
			}
		}
		account.Email = email
	}

	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: update profile: %v", utils.ErrDatabaseError, err)
	}

	out := ToProfileResponse(account)
	return &out, nil
}

func (s *ProfileService) Progress(ctx context.Context, userID uuid.UUID) (*resp.ProgressResponse, error) {
	account, err := accountOrUnauthenticated(ctx, s.accountRepo, userID)
	if err != nil {
		return nil, err
	}

	p := gamification.ProgressFor(account.TotalPoints)
	out := &resp.ProgressResponse{
		Points:           account.TotalPoints,
		Streak:           account.StreakCount,
		LongestStreak:    account.LongestStreak,
		CurrentMilestone: toMilestoneResponse(p.Current),
		PointsToNext:     p.PointsToNext,
		PercentToSummit:  p.PercentSummit,
		Milestones:       make([]resp.MilestoneResponse, 0, len(gamification.Milestones)),
	}
	if account.LastEntryDate != nil {
		out.LastEntryDate = utils.FormatDate(*account.LastEntryDate)
	}
	if p.Next != nil {
		next := toMilestoneResponse(*p.Next)
		out.NextMilestone = &next
	}
	for _, m := range gamification.Milestones {
		out.Milestones = append(out.Milestones, toMilestoneResponse(m))
	}
	return out, nil
}
