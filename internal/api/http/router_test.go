package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/worker-portal/internal/api/http/handlers"
	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/config"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/identifier"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/observability"
	"github.com/spec-kit/worker-portal/internal/otp"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/internal/service"
	"github.com/spec-kit/worker-portal/internal/storage"
)

type outbox struct {
	mu     sync.Mutex
	emails []notify.Email
	texts  []string
}

func (o *outbox) SendEmail(_ context.Context, msg notify.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emails = append(o.emails, msg)
	return nil
}

func (o *outbox) SendSMS(_ context.Context, _ string, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.texts = append(o.texts, body)
	return nil
}

type APISuite struct {
	suite.Suite
	app      *fiber.App
	accounts *service.AccountService
	outbox   *outbox
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	cfg := config.Config{
		App:          config.AppConfig{Name: "worker-portal", Version: "test"},
		Auth:         config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: bcrypt.MinCost},
		OTP:          config.OTPConfig{Length: 6, ValidityWindow: 10 * time.Minute, ExposeCode: true},
		Notification: config.NotificationConfig{SMSCountryPrefix: "+91"},
		Identifier:   config.IdentifierConfig{Prefix: "TN", MaxAttempts: 5},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	s.outbox = &outbox{}

	accounts := repository.NewMemoryAccountRepository()
	history := repository.NewMemoryAccountHistoryRepository()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	files, err := storage.NewLocalStorage(s.T().TempDir(), "/files")
	s.Require().NoError(err)

	registration := service.NewRegistrationService(cfg, service.RegistrationDependencies{
		Accounts:   accounts,
		History:    history,
		EmailCodes: otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length),
		IDs:        identifier.New(cfg.Identifier.Prefix),
		Mailer:     s.outbox,
		Tokens:     tokens,
		Metrics:    metrics,
		Logger:     logger,
	})
	identity := service.NewIdentityService(cfg, service.IdentityDependencies{
		Accounts:      accounts,
		History:       history,
		NationalCodes: otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length),
		SMS:           s.outbox,
		Metrics:       metrics,
		Logger:        logger,
	})
	s.accounts = service.NewAccountService(service.AccountDependencies{
		Accounts:   accounts,
		History:    history,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	tasks := service.NewTaskService(service.TaskDependencies{
		Tasks:      repository.NewMemoryTaskRepository(),
		Accounts:   accounts,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	documents := service.NewDocumentService(service.DocumentDependencies{
		Documents:      repository.NewMemoryDocumentRepository(),
		Files:          files,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxUploadBytes: 1 << 20,
	})
	service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Accounts:   accounts,
		Mailer:     s.outbox,
		Metrics:    metrics,
		Logger:     logger,
	}).RegisterHandlers()

	s.app = fiber.New()
	RegisterMiddlewares(s.app, logger, metrics, MiddlewareConfig{Timeout: 5 * time.Second})
	RegisterRoutes(s.app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil),
		Auth:           handlers.NewAuthHandler(registration),
		Identity:       handlers.NewIdentityHandler(identity),
		Profile:        handlers.NewProfileHandler(s.accounts),
		Admin:          handlers.NewAdminHandler(s.accounts),
		Tasks:          handlers.NewTasksHandler(tasks),
		Documents:      handlers.NewDocumentsHandler(documents),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, accounts),
		Metrics:        metrics,
	})
}

func (s *APISuite) do(method, path, token string, body any) (int, map[string]any) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(req)
}

func (s *APISuite) send(req *nethttp.Request) (int, map[string]any) {
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func registrationBody(email, nid string) map[string]any {
	return map[string]any{
		"name":       "Asha Kumar",
		"email":      email,
		"phone":      "9876543210",
		"nationalId": nid,
		"homeRegion": "Karnataka",
		"district":   "Mysuru",
		"address":    "4 Temple Street",
		"password":   "secret1",
	}
}

// registerAndLogin runs the full onboarding flow and returns worker ID and token.
func (s *APISuite) registerAndLogin(email, nid string) (string, string) {
	status, body := s.do(fiber.MethodPost, "/auth/register", "", registrationBody(email, nid))
	s.Require().Equal(nethttp.StatusCreated, status, body)
	workerID := body["workerId"].(string)

	status, body = s.do(fiber.MethodPost, "/auth/verify-otp", "", map[string]any{"email": email, "otp": body["devCode"]})
	s.Require().Equal(nethttp.StatusOK, status, body)

	status, body = s.do(fiber.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": "secret1"})
	s.Require().Equal(nethttp.StatusOK, status, body)
	return workerID, body["token"].(string)
}

func (s *APISuite) adminToken() string {
	s.Require().NoError(s.accounts.EnsureAdmin(context.Background(), "admin@example.com", "admin-pass", "Admin"))
	status, body := s.do(fiber.MethodPost, "/auth/login", "", map[string]any{"email": "admin@example.com", "password": "admin-pass"})
	s.Require().Equal(nethttp.StatusOK, status, body)
	return body["token"].(string)
}

func (s *APISuite) TestRegistrationFlow() {
	status, body := s.do(fiber.MethodPost, "/api/auth/register", "", registrationBody("asha@example.com", "123456789012"))
	s.Require().Equal(nethttp.StatusCreated, status, body)
	s.Equal(true, body["success"])
	s.Regexp(`^TN-KA-\d{2}-\d{6}$`, body["workerId"])
	code := body["devCode"].(string)

	status, body = s.do(fiber.MethodPost, "/api/auth/login", "", map[string]any{"email": "asha@example.com", "password": "secret1"})
	s.Equal(nethttp.StatusUnauthorized, status)
	s.Equal("EMAIL_NOT_VERIFIED", errorCode(body))
	s.Equal(false, body["success"])

	status, body = s.do(fiber.MethodPost, "/api/auth/verify-otp", "", map[string]any{"email": "asha@example.com", "code": "bad"})
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("INVALID_CODE", errorCode(body))

	status, _ = s.do(fiber.MethodPost, "/api/auth/verify-otp", "", map[string]any{"email": "asha@example.com", "code": code})
	s.Equal(nethttp.StatusOK, status)

	status, body = s.do(fiber.MethodPost, "/api/auth/verify-otp", "", map[string]any{"email": "asha@example.com", "code": code})
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("INVALID_CODE", errorCode(body))

	status, body = s.do(fiber.MethodPost, "/api/auth/login", "", map[string]any{"email": "asha@example.com", "password": "secret1"})
	s.Require().Equal(nethttp.StatusOK, status, body)
	token := body["token"].(string)
	user := body["user"].(map[string]any)
	s.Equal(true, user["isVerified"])
	s.NotContains(user, "passwordHash")

	status, body = s.do(fiber.MethodGet, "/api/users/me", token, nil)
	s.Require().Equal(nethttp.StatusOK, status, body)
	s.Equal("asha@example.com", body["user"].(map[string]any)["email"])
}

func (s *APISuite) TestDuplicateRegistration() {
	s.registerAndLogin("asha@example.com", "123456789012")

	status, body := s.do(fiber.MethodPost, "/auth/register", "", registrationBody("ASHA@example.com", "999999999999"))
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("DUPLICATE_EMAIL", errorCode(body))

	status, body = s.do(fiber.MethodPost, "/auth/register", "", registrationBody("new@example.com", "123456789012"))
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("DUPLICATE_NATIONAL_ID", errorCode(body))
}

func (s *APISuite) TestValidationErrorShape() {
	status, body := s.do(fiber.MethodPost, "/auth/register", "", map[string]any{"email": "x"})
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	s.Contains(details, "nationalId")
	s.Contains(details, "password")

	req := httptest.NewRequest(fiber.MethodPost, "/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	status, body = s.send(req)
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("VALIDATION_FAILED", errorCode(body))
}

func (s *APISuite) TestRegistrationTrimsPaddedFields() {
	reg := registrationBody(" Pad@Example.com ", " 444455556666")
	reg["phone"] = "9876543210 "
	status, body := s.do(fiber.MethodPost, "/auth/register", "", reg)
	s.Require().Equal(nethttp.StatusCreated, status, body)

	status, body = s.do(fiber.MethodPost, "/auth/verify-otp", "", map[string]any{"email": "pad@example.com ", "code": body["devCode"]})
	s.Require().Equal(nethttp.StatusOK, status, body)

	status, body = s.do(fiber.MethodPost, "/identity/request-otp", "", map[string]any{"nationalId": "444455556666"})
	s.Equal(nethttp.StatusOK, status, body)
}

func (s *APISuite) TestResendOutcomes() {
	status, body := s.do(fiber.MethodPost, "/auth/resend-otp", "", map[string]any{"email": "ghost@example.com"})
	s.Equal(nethttp.StatusNotFound, status)
	s.Equal("NOT_FOUND", errorCode(body))

	s.registerAndLogin("asha@example.com", "123456789012")
	status, body = s.do(fiber.MethodPost, "/auth/resend-otp", "", map[string]any{"email": "asha@example.com"})
	s.Equal(nethttp.StatusBadRequest, status)
	s.Equal("ALREADY_VERIFIED", errorCode(body))
}

func (s *APISuite) TestIdentityVerification() {
	s.registerAndLogin("asha@example.com", "123456789012")

	status, body := s.do(fiber.MethodPost, "/identity/request-otp", "", map[string]any{"nationalId": "123456789012"})
	s.Require().Equal(nethttp.StatusOK, status, body)
	code := body["devCode"].(string)
	s.Contains(s.outbox.texts[len(s.outbox.texts)-1], code)

	status, body = s.do(fiber.MethodPost, "/identity/request-otp", "", map[string]any{"nationalId": "000000000000"})
	s.Equal(nethttp.StatusNotFound, status)
	s.Equal("NOT_FOUND", errorCode(body))

	status, _ = s.do(fiber.MethodPost, "/identity/verify-otp", "", map[string]any{"nationalId": "123456789012", "code": code})
	s.Equal(nethttp.StatusOK, status)
}

func (s *APISuite) TestProtectedRoutes() {
	status, body := s.do(fiber.MethodGet, "/users/me", "", nil)
	s.Equal(nethttp.StatusUnauthorized, status)
	s.Equal("UNAUTHORIZED", errorCode(body))

	status, _ = s.do(fiber.MethodGet, "/users/me", "garbage", nil)
	s.Equal(nethttp.StatusUnauthorized, status)

	_, token := s.registerAndLogin("asha@example.com", "123456789012")
	status, body = s.do(fiber.MethodGet, "/admin/workers", token, nil)
	s.Equal(nethttp.StatusForbidden, status)
	s.Equal("FORBIDDEN", errorCode(body))
}

func (s *APISuite) TestUnknownRoute() {
	status, body := s.do(fiber.MethodGet, "/nope", "", nil)
	s.Equal(nethttp.StatusNotFound, status)
	s.Equal("NOT_FOUND", errorCode(body))
}

func (s *APISuite) TestAdminApprovalAndTasks() {
	workerID, workerToken := s.registerAndLogin("asha@example.com", "123456789012")
	admin := s.adminToken()

	status, body := s.do(fiber.MethodGet, "/admin/workers?status=pending", admin, nil)
	s.Require().Equal(nethttp.StatusOK, status, body)
	s.EqualValues(1, body["total"])

	status, body = s.do(fiber.MethodPut, "/admin/workers/"+workerID+"/approve", admin, nil)
	s.Require().Equal(nethttp.StatusOK, status, body)
	s.Equal("approved", body["user"].(map[string]any)["approvalStatus"])
	s.Equal("Registration status updated", s.outbox.emails[len(s.outbox.emails)-1].Subject)

	status, body = s.do(fiber.MethodGet, "/admin/workers/"+workerID+"/history", admin, nil)
	s.Require().Equal(nethttp.StatusOK, status)
	s.NotEmpty(body["history"])

	status, body = s.do(fiber.MethodPost, "/admin/tasks", admin, map[string]any{
		"title":       "Survey",
		"description": "Measure plot",
		"dueDate":     "2026-11-01T00:00:00Z",
		"priority":    "High",
		"assignedTo":  workerID,
	})
	s.Require().Equal(nethttp.StatusCreated, status, body)
	taskID := body["task"].(map[string]any)["id"].(string)

	status, body = s.do(fiber.MethodGet, "/tasks", workerToken, nil)
	s.Require().Equal(nethttp.StatusOK, status)
	s.Len(body["tasks"], 1)

	status, body = s.do(fiber.MethodPut, "/tasks/"+taskID+"/status", workerToken, map[string]any{"status": "completed"})
	s.Require().Equal(nethttp.StatusOK, status, body)
	s.Equal("completed", body["task"].(map[string]any)["status"])

	status, _ = s.do(fiber.MethodDelete, "/admin/tasks/"+taskID, admin, nil)
	s.Equal(nethttp.StatusOK, status)
}

func (s *APISuite) TestDocumentUpload() {
	_, token := s.registerAndLogin("asha@example.com", "123456789012")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	s.Require().NoError(form.WriteField("type", "identity"))
	part, err := form.CreateFormFile("file", "card.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := s.send(req)
	s.Require().Equal(nethttp.StatusCreated, status, body)
	doc := body["document"].(map[string]any)
	s.Equal("image/png", doc["contentType"])
	s.Equal("card", doc["name"])

	status, body = s.do(fiber.MethodGet, "/documents", token, nil)
	s.Require().Equal(nethttp.StatusOK, status)
	s.Len(body["documents"], 1)
}

func (s *APISuite) TestHealthAndMetrics() {
	status, body := s.do(fiber.MethodGet, "/health/live", "", nil)
	s.Equal(nethttp.StatusOK, status)
	s.Equal("alive", body["status"])

	status, _ = s.do(fiber.MethodGet, "/health/ready", "", nil)
	s.Equal(nethttp.StatusOK, status)

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(raw), "portal_http_requests_total")
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	err := toDomainError(fiber.ErrRequestEntityTooLarge)
	require.NotNil(t, err)
	assert.Equal(t, "VALIDATION_FAILED", err.Code)
	assert.Equal(t, nethttp.StatusRequestEntityTooLarge, err.HTTPStatus)

	assert.Equal(t, "INTERNAL_ERROR", toDomainError(context.Canceled).Code)
	assert.Equal(t, nethttp.StatusGatewayTimeout, toDomainError(context.DeadlineExceeded).HTTPStatus)
}
