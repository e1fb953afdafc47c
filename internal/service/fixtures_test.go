package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/config"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/identifier"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/otp"
	"github.com/spec-kit/worker-portal/internal/repository"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []notify.Email
	fail bool
}

func (m *captureMailer) SendEmail(_ context.Context, msg notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return notify.ErrDeliveryFailed
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() notify.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return notify.Email{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type sms struct{ to, body string }

type captureSMS struct {
	mu   sync.Mutex
	sent []sms
	fail bool
}

func (s *captureSMS) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return notify.ErrDeliveryFailed
	}
	s.sent = append(s.sent, sms{to: to, body: body})
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth:         config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: bcrypt.MinCost},
		OTP:          config.OTPConfig{Length: 6, ValidityWindow: 10 * time.Minute, ExposeCode: true},
		Notification: config.NotificationConfig{SMSCountryPrefix: "+91"},
		Identifier:   config.IdentifierConfig{Prefix: "TN", MaxAttempts: 5},
	}
}

// collidingAccounts fails the first n creates with a worker ID collision.
type collidingAccounts struct {
	repository.AccountRepository
	remaining int
	attempted []string
}

func (c *collidingAccounts) Create(ctx context.Context, account *domain.Account) error {
	c.attempted = append(c.attempted, account.ID)
	if c.remaining > 0 {
		c.remaining--
		return repository.ErrDuplicateWorkerID
	}
	return c.AccountRepository.Create(ctx, account)
}

type failingHistory struct{}

func (failingHistory) Create(context.Context, *domain.AccountHistory) error {
	return errors.New("history unavailable")
}

func (failingHistory) ListByAccount(context.Context, string) ([]domain.AccountHistory, error) {
	return nil, errors.New("history unavailable")
}

type portal struct {
	cfg          config.Config
	accounts     repository.AccountRepository
	history      repository.AccountHistoryRepository
	emailCodes   *otp.MemoryStore
	nidCodes     *otp.MemoryStore
	mailer       *captureMailer
	sms          *captureSMS
	dispatcher   events.Dispatcher
	registration *RegistrationService
	identity     *IdentityService
	accountsSvc  *AccountService
	tasks        *TaskService
}

func newPortal() *portal {
	cfg := testConfig()
	logger := zap.NewNop()
	p := &portal{
		cfg:        cfg,
		accounts:   repository.NewMemoryAccountRepository(),
		history:    repository.NewMemoryAccountHistoryRepository(),
		emailCodes: otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length),
		nidCodes:   otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length),
		mailer:     &captureMailer{},
		sms:        &captureSMS{},
		dispatcher: events.NewInMemoryDispatcher(logger),
	}
	p.registration = NewRegistrationService(cfg, RegistrationDependencies{
		Accounts:   p.accounts,
		History:    p.history,
		EmailCodes: p.emailCodes,
		IDs:        identifier.New(cfg.Identifier.Prefix),
		Mailer:     p.mailer,
		Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		Logger:     logger,
	})
	p.identity = NewIdentityService(cfg, IdentityDependencies{
		Accounts:      p.accounts,
		History:       p.history,
		NationalCodes: p.nidCodes,
		SMS:           p.sms,
		Logger:        logger,
	})
	p.accountsSvc = NewAccountService(AccountDependencies{
		Accounts:   p.accounts,
		History:    p.history,
		Dispatcher: p.dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	p.tasks = NewTaskService(TaskDependencies{
		Tasks:      repository.NewMemoryTaskRepository(),
		Accounts:   p.accounts,
		Dispatcher: p.dispatcher,
		Logger:     logger,
	})
	return p
}

func sampleInput() RegisterInput {
	return RegisterInput{
		Name:       "Asha Kumar",
		Email:      "Asha@Example.com",
		Phone:      "9876543210",
		NationalID: "123456789012",
		HomeRegion: "Tamil Nadu",
		District:   "Chennai",
		Address:    "12 Main Road",
		Password:   "secret1",
	}
}

// registerVerified creates an account and completes email verification.
func (p *portal) registerVerified(in RegisterInput) *domain.Account {
	res, err := p.registration.Register(context.Background(), in)
	if err != nil {
		panic(err)
	}
	account, err := p.registration.VerifyEmail(context.Background(), in.Email, res.DevCode)
	if err != nil {
		panic(err)
	}
	return account
}
