package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
	"github.com/inkvoice/inkvoice/internal/config"
	obsmetrics "github.com/inkvoice/inkvoice/internal/observability/metrics"
	"github.com/inkvoice/inkvoice/internal/providers/email"
	"github.com/inkvoice/inkvoice/internal/ratelimit"
)

const (
	linkKeyPrefix    = "auth:link:"
	sessionKeyPrefix = "auth:session:"
	loginRateKey     = "ratelimit:login:%s"

	linkTTL    = 15 * time.Minute
	sessionTTL = 30 * 24 * time.Hour

	// One link per ~30s sustained, small burst for typos and retries.
	loginRate  = 1.0 / 30.0
	loginBurst = 3
)

type ServiceParam struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Redis   *redis.Client
	Email   email.Provider
	Limiter *ratelimit.TokenBucket
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	cfg     config.Config
	log     *zap.Logger
	redis   *redis.Client
	email   email.Provider
	limiter *ratelimit.TokenBucket
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) authdomain.Service {
	return &Service{
		cfg:     p.Cfg,
		log:     p.Log.Named("auth.service"),
		redis:   p.Redis,
		email:   p.Email,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

func (s *Service) RequestLogin(ctx context.Context, emailAddr string) error {
	addr, err := normalizeEmail(emailAddr)
	if err != nil {
		return authdomain.ErrInvalidEmail
	}

	res, err := s.limiter.Allow(ctx, fmt.Sprintf(loginRateKey, addr), loginRate, loginBurst)
	if err != nil {
		// A broken limiter should not lock everyone out.
		s.log.Warn("login rate limiter unavailable", zap.Error(err))
	} else if !res.Allowed {
		return authdomain.ErrTooManyLogins
	}

	token := ulid.Make().String()
	if err := s.redis.Set(ctx, linkKeyPrefix+hashToken(token), addr, linkTTL).Err(); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", s.cfg.BaseURL, token)
	msg := email.Message{
		To:      addr,
		Subject: "Your sign-in link",
		HTML: fmt.Sprintf(
			`<p>Click the link below to sign in. It expires in %d minutes and can be used once.</p><p><a href=%q>Sign in</a></p>`,
			int(linkTTL.Minutes()), link,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return err
	}

	s.metrics.RecordLoginLink(ctx)
	s.log.Info("login link issued", zap.String("email", addr))
	return nil
}

func (s *Service) VerifyLogin(ctx context.Context, token string) (authdomain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Session{}, authdomain.ErrInvalidToken
	}

	// GETDEL makes each link single use even under concurrent clicks.
	addr, err := s.redis.GetDel(ctx, linkKeyPrefix+hashToken(token)).Result()
	if err == redis.Nil {
		return authdomain.Session{}, authdomain.ErrInvalidToken
	}
	if err != nil {
		return authdomain.Session{}, err
	}

	sid := ulid.Make().String()
	expiresAt := time.Now().UTC().Add(sessionTTL)
	if err := s.redis.Set(ctx, sessionKeyPrefix+sid, addr, sessionTTL).Err(); err != nil {
		return authdomain.Session{}, err
	}

	s.log.Info("session opened", zap.String("email", addr))
	return authdomain.Session{Token: sid, Email: addr, ExpiresAt: expiresAt}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (authdomain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Principal{}, authdomain.ErrUnauthorized
	}

	addr, err := s.redis.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return authdomain.Principal{}, authdomain.ErrUnauthorized
	}
	if err != nil {
		return authdomain.Principal{}, err
	}
	return authdomain.Principal{Email: addr}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.redis.Del(ctx, sessionKeyPrefix+token).Err()
}

// Tokens are stored hashed so a Redis snapshot cannot be replayed as
// live links.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(raw string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Address), nil
}
