package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/config"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/identifier"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/observability"
	"github.com/spec-kit/worker-portal/internal/otp"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// RegisterInput carries a registration submission.
type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	NationalID string
	HomeRegion string
	District   string
	Address    string
	Password   string
}

// RegisterResult is returned on successful registration. DevCode is only
// populated when code exposure is enabled for development.
type RegisterResult struct {
	Account *domain.Account
	DevCode string
}

// LoginResult bundles the issued token with the account.
type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// RegistrationService runs the register → verify email → login workflow.
type RegistrationService struct {
	accounts    repository.AccountRepository
	codes       otp.Store
	ids         *identifier.Generator
	mailer      notify.Mailer
	tokens      *auth.TokenManager
	metrics     *observability.Metrics
	logger      *zap.Logger
	audit       auditor
	bcryptCost  int
	maxAttempts int
	codeWindow  time.Duration
	exposeCode  bool
}

// RegistrationDependencies encapsulates collaborators for the workflow.
type RegistrationDependencies struct {
	Accounts   repository.AccountRepository
	History    repository.AccountHistoryRepository
	EmailCodes otp.Store
	IDs        *identifier.Generator
	Mailer     notify.Mailer
	Tokens     *auth.TokenManager
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRegistrationService builds the service.
func NewRegistrationService(cfg config.Config, deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		accounts:    deps.Accounts,
		codes:       deps.EmailCodes,
		ids:         deps.IDs,
		mailer:      deps.Mailer,
		tokens:      deps.Tokens,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		audit:       auditor{history: deps.History, logger: deps.Logger},
		bcryptCost:  cfg.Auth.BcryptCost,
		maxAttempts: cfg.Identifier.MaxAttempts,
		codeWindow:  cfg.OTP.ValidityWindow,
		exposeCode:  cfg.OTP.ExposeCode,
	}
}

func validateRegistration(in RegisterInput) error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	if !validEmail(in.Email) {
		errs.add("email", "a valid email is required")
	}
	if !validPhone(in.Phone) {
		errs.add("phone", "phone must be a 10-digit mobile number")
	}
	if !validNationalID(in.NationalID) {
		errs.add("nationalId", "national ID must be exactly 12 digits")
	}
	if strings.TrimSpace(in.HomeRegion) == "" {
		errs.add("homeRegion", "home region is required")
	}
	if len(in.Password) < minPasswordLength {
		errs.add("password", "password must be at least 6 characters")
	}
	return errs.err()
}

// Register creates an unverified, pending account and emails a code. The
// unique indexes are authoritative; the lookups only fail fast.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.NationalID = strings.TrimSpace(in.NationalID)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByEmail(ctx, in.Email); err == nil {
		return nil, errorutil.NewDuplicateEmail()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewInternalError(err)
	}
	if _, err := s.accounts.FindByNationalID(ctx, in.NationalID); err == nil {
		return nil, errorutil.NewDuplicateNationalID()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	account, err := s.createWithFreshID(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRegistration()

	code := s.issueAndSend(ctx, account)
	result := &RegisterResult{Account: account}
	if s.exposeCode {
		result.DevCode = code
	}
	return result, nil
}

func (s *RegistrationService) createWithFreshID(ctx context.Context, in RegisterInput, hash string) (*domain.Account, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		account := &domain.Account{
			ID:             s.ids.Generate(in.HomeRegion),
			Name:           in.Name,
			Email:          in.Email,
			NationalID:     in.NationalID,
			Phone:          in.Phone,
			HomeRegion:     strings.TrimSpace(in.HomeRegion),
			District:       strings.TrimSpace(in.District),
			Address:        strings.TrimSpace(in.Address),
			PasswordHash:   hash,
			Role:           domain.RoleWorker,
			ApprovalStatus: domain.ApprovalPending,
		}
		err := s.accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, repository.ErrDuplicateWorkerID) {
			s.logger.Warn("worker id collision; regenerating", zap.String("worker_id", account.ID), zap.Int("attempt", attempt))
			continue
		}
		return nil, mapRepoError(err, "account")
	}
	return nil, errorutil.NewInternalError(errors.New("exhausted worker id generation attempts"))
}

// issueAndSend issues an email code and dispatches it. Failures are logged
// and counted; the account stays retrievable for a resend.
func (s *RegistrationService) issueAndSend(ctx context.Context, account *domain.Account) string {
	code, err := s.codes.Issue(ctx, account.Email)
	if err != nil {
		s.logger.Error("issue email code failed", zap.String("account_id", account.ID), zap.Error(err))
		return ""
	}
	s.metrics.RecordOTPIssued(string(otp.PurposeEmail))

	msg := notify.VerificationEmail(account.Name, account.Email, account.ID, code, s.codeWindow)
	if err := s.mailer.SendEmail(ctx, msg); err != nil {
		s.metrics.RecordNotificationFailure("email")
		s.logger.Warn("verification email not delivered", zap.String("account_id", account.ID), zap.Error(err))
	}
	return code
}

// VerifyEmail consumes the emailed code and marks the account verified.
func (s *RegistrationService) VerifyEmail(ctx context.Context, email, code string) (*domain.Account, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, errorutil.NewValidationError("email and code are required", nil)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewInvalidCode()
		}
		return nil, errorutil.NewInternalError(err)
	}
	// A verified account has no pending code, so a repeat submission fails
	// the same way a wrong code does.
	if err := s.codes.Verify(ctx, email, code); err != nil {
		s.metrics.RecordOTPVerification(string(otp.PurposeEmail), false)
		if errors.Is(err, otp.ErrInvalidCode) {
			return nil, errorutil.NewInvalidCode()
		}
		return nil, errorutil.NewInternalError(err)
	}
	s.metrics.RecordOTPVerification(string(otp.PurposeEmail), true)

	if err := s.accounts.SetEmailVerified(ctx, account.ID); err != nil {
		return nil, mapRepoError(err, "account")
	}
	account.EmailVerified = true

	s.audit.record(ctx, &domain.AccountHistory{
		AccountID:  account.ID,
		ActorID:    account.ID,
		ChangeType: domain.ChangeEmailVerified,
		OldValue:   map[string]any{"email_verified": false},
		NewValue:   map[string]any{"email_verified": true},
	})
	return account, nil
}

// ResendCode replaces any pending email code with a fresh one.
func (s *RegistrationService) ResendCode(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", errorutil.NewValidationError("email is required", nil)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", mapRepoError(err, "account")
	}
	if account.EmailVerified {
		return "", errorutil.NewAlreadyVerified("email already verified")
	}

	if err := s.codes.Invalidate(ctx, email); err != nil {
		return "", errorutil.NewInternalError(err)
	}
	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return "", errorutil.NewInternalError(err)
	}
	s.metrics.RecordOTPIssued(string(otp.PurposeEmail))

	msg := notify.VerificationEmail(account.Name, account.Email, account.ID, code, s.codeWindow)
	if err := s.mailer.SendEmail(ctx, msg); err != nil {
		s.metrics.RecordNotificationFailure("email")
		s.logger.Warn("verification email not delivered", zap.String("account_id", account.ID), zap.Error(err))
	}

	if s.exposeCode {
		return code, nil
	}
	return "", nil
}

// Login checks verification before credentials so an unverified account
// always gets EMAIL_NOT_VERIFIED.
func (s *RegistrationService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errorutil.NewValidationError("email and password are required", nil)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewInvalidCredentials()
		}
		return nil, errorutil.NewInternalError(err)
	}
	if !account.EmailVerified {
		return nil, errorutil.NewEmailNotVerified()
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, errorutil.NewInvalidCredentials()
	}

	token, exp, err := s.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &LoginResult{Account: account, Token: token, ExpiresAt: exp}, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *RegistrationService) Logout(_ context.Context, _ string) error {
	return nil
}
