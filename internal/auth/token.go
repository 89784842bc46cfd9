package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/yourorg/parking-api/internal/clock"
	"github.com/yourorg/parking-api/internal/metrics"
)

// ErrAuthentication marks a failed upstream credential exchange.
var ErrAuthentication = errors.New("credential exchange failed")

// safetyMargin is subtracted from the granted lifetime to avoid races with
// server-side expiry.
const safetyMargin = 60 * time.Second

// Exchanger performs the upstream credential exchange and returns the raw
// JSON response body.
type Exchanger interface {
	ExchangeToken(ctx context.Context) ([]byte, error)
}

type credential struct {
	token     string
	expiresAt time.Time
}

// Manager caches a single bearer credential and renews it on expiry.
// The credential is replaced wholesale; it is never returned to a caller
// within the safety margin of its expiry.
type Manager struct {
	mu       sync.Mutex
	exchange Exchanger
	clock    clock.Clock
	log      *zap.Logger
	cred     *credential
}

func NewManager(exchange Exchanger, clk clock.Clock, log *zap.Logger) *Manager {
	return &Manager{exchange: exchange, clock: clk, log: log}
}

// Token returns the cached token while it is still valid, otherwise performs
// one credential exchange. No retry: a failed exchange propagates to the
// caller and the stale credential stays evicted.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred != nil && m.clock.Now().Before(m.cred.expiresAt) {
		return m.cred.token, nil
	}
	m.cred = nil

	raw, err := m.exchange.ExchangeToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	var granted struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &granted); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if granted.AccessToken == "" {
		return "", fmt.Errorf("%w: response carried no access_token", ErrAuthentication)
	}

	now := m.clock.Now()
	expiresAt, err := m.expiryFor(now, granted.AccessToken, granted.ExpiresIn)
	if err != nil {
		return "", err
	}

	m.cred = &credential{token: granted.AccessToken, expiresAt: expiresAt}
	metrics.TokenRenewals.Inc()
	m.log.Info("access token renewed", zap.Time("expires_at", expiresAt))
	return m.cred.token, nil
}

// expiryFor derives the credential expiry from expires_in, falling back to
// the token's own exp claim (unverified parse) when the grant omits it.
func (m *Manager) expiryFor(now time.Time, token string, expiresIn int64) (time.Time, error) {
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn)*time.Second - safetyMargin), nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-safetyMargin), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: response carried no token lifetime", ErrAuthentication)
}
