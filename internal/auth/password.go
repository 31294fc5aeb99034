package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "portfolio-backend/internal/shared/auth"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
	"portfolio-backend/internal/users"
)

const minPasswordLength = 6

// SignUpInput carries the fields of an email/password registration.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

// PasswordService implements email/password accounts with email verification.
type PasswordService struct {
	Users           users.Repo
	Mailer          Mailer
	Revocations     RevocationStore
	VerifyURL       string
	VerificationTTL time.Duration
	BcryptCost      int
	Now             func() time.Time
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SignUp registers a new account and sends a verification link.
func (s *PasswordService) SignUp(ctx context.Context, in SignUpInput) (users.User, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return users.User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return users.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return users.User{}, fmt.Errorf("hash password: %w", err)
	}

	token, err := newVerificationToken()
	if err != nil {
		return users.User{}, err
	}
	ttl := s.VerificationTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expires := s.now().Add(ttl)

	user := users.User{
		ID:                    uuid.NewString(),
		Email:                 email,
		FullName:              strings.TrimSpace(in.FullName),
		PasswordHash:          string(hash),
		VerificationTokenHash: util.HashKey(token),
		VerificationExpiresAt: &expires,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return users.User{}, err
	}

	link, err := verificationLink(s.VerifyURL, token)
	if err != nil {
		return users.User{}, err
	}
	if s.Mailer != nil {
		if err := s.Mailer.SendVerification(ctx, user.Email, user.FullName, link); err != nil {
			telemetry.Error("auth.verification_send_failed", map[string]any{
				"user_id": user.ID,
				"error":   err,
			})
		}
	}
	telemetry.Info("auth.signup", map[string]any{"user_id": user.ID})
	return user, nil
}

// Verify confirms the email address owning the given token.
func (s *PasswordService) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.Users.GetByVerificationHash(ctx, util.HashKey(token))
	if errors.Is(err, users.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	now := s.now()
	if user.VerificationExpiresAt != nil && now.After(*user.VerificationExpiresAt) {
		return ErrInvalidToken
	}
	return s.Users.MarkVerified(ctx, user.ID, now)
}

// SignIn checks credentials and issues a JWT for verified accounts.
func (s *PasswordService) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, users.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !user.Verified() {
		return Session{}, ErrEmailNotVerified
	}

	now := s.now()
	expires := now.Add(24 * time.Hour)
	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.Users.TouchLogin(ctx, user.ID, now); err != nil {
		telemetry.Warn("auth.touch_login_failed", map[string]any{"user_id": user.ID, "error": err})
	}
	return Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// SignOut revokes the presented token until it would have expired anyway.
func (s *PasswordService) SignOut(ctx context.Context, claims sharedauth.Claims) error {
	if s.Revocations == nil || claims.ID == "" {
		return nil
	}
	return s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresIn(s.now()))
}

func newVerificationToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

func verificationLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse verify url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
