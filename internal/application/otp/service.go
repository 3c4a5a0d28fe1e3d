package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/pkg/id"
	"github.com/fitness-hub/core/internal/pkg/logger"
	"github.com/fitness-hub/core/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeMin = 100000
	codeMax = 999999

	// auditRetention is how long a finished record survives past its expiry
	// before DynamoDB TTL removes it.
	auditRetention = 7 * 24 * time.Hour
)

type Service interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

type otpStore interface {
	Replace(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, email, id string, now time.Time) error
	Invalidate(ctx context.Context, email, id string) error
}

type mailer interface {
	Send(ctx context.Context, msg domain.Email) error
}

type eventPublisher interface {
	PublishEmailVerified(ctx context.Context, evt domain.EmailVerifiedEvent) error
}

type service struct {
	store          otpStore
	mailer         mailer
	events         eventPublisher
	log            *logger.Logger
	ttl            time.Duration
	cooldown       time.Duration
	strictDelivery bool
	hashCost       int
	now            func() time.Time
}

type ServiceDeps struct {
	Store  otpStore
	Mailer mailer
	Events eventPublisher // optional
	Logger *logger.Logger

	TTL            time.Duration
	ResendCooldown time.Duration
	StrictDelivery bool
	HashCost       int
	Clock          func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:          deps.Store,
		mailer:         deps.Mailer,
		events:         deps.Events,
		log:            deps.Logger,
		ttl:            deps.TTL,
		cooldown:       deps.ResendCooldown,
		strictDelivery: deps.StrictDelivery,
		hashCost:       deps.HashCost,
		now:            deps.Clock,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.ttl <= 0 {
		s.ttl = 10 * time.Minute
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With("component", "otp")
	return s
}

func (s *service) Send(ctx context.Context, email string) error {
	if err := validate.Var("email", email, "required,email"); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC().Truncate(time.Second)

	if s.cooldown > 0 {
		prev, err := s.store.Get(ctx, email)
		switch {
		case err == nil:
			if !prev.Verified && now.Sub(prev.CreatedAt) < s.cooldown {
				return fmt.Errorf("code already sent, retry later: %w", domain.ErrTooManyRequests)
			}
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("failed to generate OTP: %w", err)
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	expiresAt := now.Add(s.ttl)
	rec := &domain.OTPRecord{
		Email:     email,
		ID:        id.NewAt(now),
		CodeHash:  string(hash),
		ExpiresAt: expiresAt,
		CreatedAt: now,
		TTL:       expiresAt.Add(auditRetention).Unix(),
	}
	if err := s.store.Replace(ctx, rec); err != nil {
		s.log.Error("failed to store otp", "record_id", rec.ID, "err", err)
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.mailer.Send(ctx, verificationEmail(email, code, s.ttl, now)); err != nil {
		s.log.Error("failed to deliver otp email", "record_id", rec.ID, "strict", s.strictDelivery, "err", err)
		if !s.strictDelivery {
			return nil
		}
		if ierr := s.store.Invalidate(ctx, email, rec.ID); ierr != nil && !errors.Is(ierr, domain.ErrConditionFailed) {
			s.log.Warn("failed to invalidate undelivered otp", "record_id", rec.ID, "err", ierr)
		}
		return fmt.Errorf("%v: %w", err, domain.ErrDeliveryFailed)
	}

	s.log.Info("otp issued", "record_id", rec.ID, "expires_at", expiresAt)
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	if err := validate.Var("email", email, "required,email"); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if err := validate.Var("otp", code, "required,len=6,numeric"); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC().Truncate(time.Second)

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no code issued: %w", domain.ErrInvalidOTP)
		}
		return fmt.Errorf("verify otp: %w", err)
	}
	if !rec.Active(now) {
		return fmt.Errorf("code expired or already used: %w", domain.ErrInvalidOTP)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidOTP)
	}
	if err := s.store.MarkVerified(ctx, email, rec.ID, now); err != nil {
		if errors.Is(err, domain.ErrConditionFailed) {
			return fmt.Errorf("code no longer current: %w", domain.ErrInvalidOTP)
		}
		return fmt.Errorf("verify otp: %w", err)
	}
	s.log.Info("email verified", "record_id", rec.ID)

	if s.events != nil {
		evt := domain.EmailVerifiedEvent{
			Type:       domain.EventEmailVerified,
			Email:      email,
			RecordID:   rec.ID,
			VerifiedAt: now,
		}
		if err := s.events.PublishEmailVerified(ctx, evt); err != nil {
			s.log.Warn("failed to publish verification event", "record_id", rec.ID, "err", err)
		}
	}
	return nil
}

// generateCode returns a six-digit code drawn uniformly from [codeMin, codeMax].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
