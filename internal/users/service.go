package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var errNotConfigured = errors.New("users service not configured")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Profile is the public view of a portfolio owner.
type Profile struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"fullName"`
	PictureURL    string     `json:"pictureUrl,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	MemberSince   time.Time  `json:"memberSince"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

func profileOf(u User) Profile {
	return Profile{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		PictureURL:    u.PictureURL,
		EmailVerified: u.Verified(),
		MemberSince:   u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// UpsertFromAuth records an OAuth identity with a trimmed, lowercased email.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errNotConfigured
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FullName = strings.TrimSpace(user.FullName)
	if strings.TrimSpace(user.ID) == "" || user.Email == "" {
		return fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	return s.Repo.Upsert(ctx, user)
}

// Profile loads the owner profile for userID.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return profileOf(user), nil
}
