// Package user handles registration, login and profile resolution.
// Registration binds the referrer (via referral code) and opens the
// user's wallet; the referral reward itself fires later, on the first
// completed date order.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dinedate/internal/models"
	"dinedate/internal/repositories"
	"dinedate/internal/services/review"
	"dinedate/internal/services/wallet"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrInvalidCredentials  = errors.New("invalid phone or password")
	ErrUnknownReferralCode = errors.New("unknown referral code")
)

type RegisterInput struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
	AvatarURL    string `json:"avatar_url"`
	ReferralCode string `json:"referral_code"`
}

// Profile is a user as seen by another user: the real avatar appears
// only when the two share a Connection.
type Profile struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Connected bool   `json:"connected"`
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, phone, password string) (*models.User, error)
	Get(ctx context.Context, userID uint) (*models.User, error)
	// ResolveProfile returns userID's profile as visible to viewerID.
	ResolveProfile(ctx context.Context, viewerID, userID uint) (*Profile, error)
}

type service struct {
	users   repositories.UserRepository
	ledger  wallet.Service
	reviews review.Service
}

func NewService(users repositories.UserRepository, ledger wallet.Service, reviews review.Service) Service {
	if users == nil {
		panic("user repository is required")
	}
	if ledger == nil {
		panic("wallet ledger is required")
	}
	return &service{users: users, ledger: ledger, reviews: reviews}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	var referrerID *uint
	if in.ReferralCode != "" {
		referrer, err := s.users.GetByReferralCode(strings.ToUpper(in.ReferralCode))
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUnknownReferralCode
			}
			return nil, err
		}
		referrerID = &referrer.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Phone:        in.Phone,
		Password:     string(hashed),
		PlanTier:     models.PlanTierFree,
		ReferralCode: newReferralCode(),
		ReferrerID:   referrerID,
		AvatarURL:    in.AvatarURL,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	if _, err := s.ledger.CreateWallet(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to open wallet: %w", err)
	}
	return user, nil
}

func (s *service) Authenticate(_ context.Context, phone, password string) (*models.User, error) {
	user, err := s.users.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) Get(_ context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

func (s *service) ResolveProfile(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
	if s.reviews == nil || viewerID == userID {
		return profile, nil
	}
	connected, err := s.reviews.Connected(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	if connected && user.RealAvatarURL != "" {
		profile.AvatarURL = user.RealAvatarURL
	}
	profile.Connected = connected
	return profile, nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
