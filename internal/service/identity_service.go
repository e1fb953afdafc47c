package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/config"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/observability"
	"github.com/spec-kit/worker-portal/internal/otp"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// IdentityService verifies control of a national ID by texting a code to
// the phone registered with it. It never touches the email flag.
type IdentityService struct {
	accounts      repository.AccountRepository
	codes         otp.Store
	sms           notify.SMSSender
	metrics       *observability.Metrics
	logger        *zap.Logger
	audit         auditor
	countryPrefix string
	codeWindow    time.Duration
	exposeCode    bool
}

// IdentityDependencies encapsulates collaborators.
type IdentityDependencies struct {
	Accounts      repository.AccountRepository
	History       repository.AccountHistoryRepository
	NationalCodes otp.Store
	SMS           notify.SMSSender
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		accounts:      deps.Accounts,
		codes:         deps.NationalCodes,
		sms:           deps.SMS,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		audit:         auditor{history: deps.History, logger: deps.Logger},
		countryPrefix: cfg.Notification.SMSCountryPrefix,
		codeWindow:    cfg.OTP.ValidityWindow,
		exposeCode:    cfg.OTP.ExposeCode,
	}
}

func requireNationalID(id string) error {
	if !validNationalID(id) {
		return errorutil.NewValidationError("validation failed", map[string]any{
			"nationalId": "national ID must be exactly 12 digits",
		})
	}
	return nil
}

// RequestCode issues a national-ID code and texts it to the linked phone.
// The code is returned only when development exposure is enabled.
func (s *IdentityService) RequestCode(ctx context.Context, nationalID string) (string, error) {
	nationalID = strings.TrimSpace(nationalID)
	if err := requireNationalID(nationalID); err != nil {
		return "", err
	}

	account, err := s.accounts.FindByNationalID(ctx, nationalID)
	if err != nil {
		return "", mapRepoError(err, "account")
	}

	code, err := s.codes.Issue(ctx, nationalID)
	if err != nil {
		return "", errorutil.NewInternalError(err)
	}
	s.metrics.RecordOTPIssued(string(otp.PurposeNationalID))

	to := s.countryPrefix + account.Phone
	if err := s.sms.SendSMS(ctx, to, notify.IdentityCodeSMS(code, s.codeWindow)); err != nil {
		s.metrics.RecordNotificationFailure("sms")
		s.logger.Warn("identity code sms not delivered",
			zap.String("account_id", account.ID),
			zap.String("to", notify.MaskPhone(to)),
			zap.Error(err))
	}

	if s.exposeCode {
		return code, nil
	}
	return "", nil
}

// VerifyCode consumes the national-ID code and sets the identity flag.
func (s *IdentityService) VerifyCode(ctx context.Context, nationalID, code string) (*domain.Account, error) {
	nationalID = strings.TrimSpace(nationalID)
	code = strings.TrimSpace(code)
	if err := requireNationalID(nationalID); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errorutil.NewValidationError("code is required", nil)
	}

	if err := s.codes.Verify(ctx, nationalID, code); err != nil {
		s.metrics.RecordOTPVerification(string(otp.PurposeNationalID), false)
		if errors.Is(err, otp.ErrInvalidCode) {
			return nil, errorutil.NewInvalidCode()
		}
		return nil, errorutil.NewInternalError(err)
	}
	s.metrics.RecordOTPVerification(string(otp.PurposeNationalID), true)

	account, err := s.accounts.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, mapRepoError(err, "account")
	}
	if err := s.accounts.SetIdentityVerified(ctx, account.ID); err != nil {
		return nil, mapRepoError(err, "account")
	}

	if !account.IdentityVerified {
		s.audit.record(ctx, &domain.AccountHistory{
			AccountID:  account.ID,
			ActorID:    account.ID,
			ChangeType: domain.ChangeIdentityVerified,
			OldValue:   map[string]any{"identity_verified": false},
			NewValue:   map[string]any{"identity_verified": true},
		})
	}
	account.IdentityVerified = true
	return account, nil
}
