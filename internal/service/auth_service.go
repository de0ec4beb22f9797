package service

import (
	"context"
	"fmt"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/notify"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/security"
)

// AuthService handles registration and login. Registration also seeds the
// notification-preference cross-product for the new user.
type AuthService struct {
	users       domain.UserRepository
	preferences domain.PreferenceRepository
	tokens      *security.TokenService
	hash        *security.PasswordHasher
}

func NewAuthService(
	users domain.UserRepository,
	preferences domain.PreferenceRepository,
	tokens *security.TokenService,
	hash *security.PasswordHasher,
) *AuthService {
	return &AuthService{
		users:       users,
		preferences: preferences,
		tokens:      tokens,
		hash:        hash,
	}
}

type RegisterInput struct {
	Username string
	Email    *string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type TokenResponse struct {
	AccessToken string
	TokenType   string
	User        *domain.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	if existing, err := s.users.GetByUsername(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username already registered", domain.ErrConflict)
	}

	if in.Email != nil && *in.Email != "" {
		if existing, err := s.users.GetByEmail(ctx, *in.Email); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if existing != nil {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hashed,
		IsActive:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.preferences.SeedDefaults(ctx, user.ID, DefaultPreferences()); err != nil {
		return nil, fmt.Errorf("seed notification preferences: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: incorrect username or password", domain.ErrInvalidCredential)
	}
	if !user.IsActive || user.IsSuspended {
		return nil, fmt.Errorf("%w: account disabled", domain.ErrInvalidCredential)
	}

	if err := s.hash.Verify(in.Password, user.HashedPassword); err != nil {
		return nil, fmt.Errorf("%w: incorrect username or password", domain.ErrInvalidCredential)
	}

	token, err := s.tokens.CreateForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// DefaultPreferences builds the registration-time preference rows: one per
// configured notification type, in-app following the type's default, email
// off at instant frequency.
func DefaultPreferences() []*domain.NotificationPreference {
	configs := notify.All()
	prefs := make([]*domain.NotificationPreference, 0, len(configs))
	for _, c := range configs {
		prefs = append(prefs, &domain.NotificationPreference{
			Category:       c.Category,
			Subcategory:    c.Type,
			InAppEnabled:   c.DefaultEnabled,
			EmailEnabled:   false,
			EmailFrequency: domain.FrequencyInstant,
		})
	}
	return prefs
}
