package services

import (
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/server/auth"
	"github.com/dmitrijs2005/suggestbox/internal/server/config"
)

// AuthService gates moderation behind the single configured moderator
// identity. Sessions are stateless signed tokens; the signing secret lives
// for the process lifetime unless pinned in config, so a restart logs every
// moderator out.
type AuthService struct {
	adminUsername           string
	adminPasswordHash       string
	sessionSecret           []byte
	sessionValidityDuration time.Duration
}

// NewAuthService constructs an AuthService from the configured identity and
// the session signing secret resolved at startup.
func NewAuthService(cfg *config.Config, sessionSecret []byte) *AuthService {
	return &AuthService{
		adminUsername:           cfg.AdminUsername,
		adminPasswordHash:       cfg.AdminPasswordHash,
		sessionSecret:           sessionSecret,
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// Login verifies the supplied credentials against the configured identity
// and, on success, mints a session token. Any mismatch yields the generic
// common.ErrInvalidCredentials; the caller cannot tell an unknown username
// from a wrong password. The password digest is always computed so both
// paths take comparable time.
func (s *AuthService) Login(username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1

	passwordOK, err := auth.ComparePassword(password, s.adminPasswordHash)
	if err != nil {
		return "", common.ErrInternal
	}

	if !usernameOK || !passwordOK {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.adminUsername, s.sessionSecret, s.sessionValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// Check reports whether token represents a valid session and, if so, the
// moderator's username. It never fails; an invalid or expired token is
// simply not authenticated.
func (s *AuthService) Check(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	username, err := auth.GetUsernameFromToken(token, s.sessionSecret)
	if err != nil {
		return "", false
	}
	return username, true
}
