package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

func TestValidateRegisterRequest(t *testing.T) {
	ok := RegisterRequest{
		Name:       "Asha",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		NationalID: "123456789012",
		HomeRegion: "Kerala",
		Password:   "secret1",
	}
	assert.NoError(t, Validate(ok))

	bad := RegisterRequest{Email: "nope", Phone: "5555555555", NationalID: "1234", Password: "abc"}
	err := Validate(bad)
	domainErr := errorutil.ToDomainError(err)
	require.Equal(t, errorutil.CodeValidation, domainErr.Code)
	assert.Equal(t, "name is required", domainErr.Details["name"])
	assert.Equal(t, "email must be a valid email address", domainErr.Details["email"])
	assert.Equal(t, "phone must be a 10-digit mobile number", domainErr.Details["phone"])
	assert.Equal(t, "national ID must be exactly 12 digits", domainErr.Details["nationalId"])
	assert.Equal(t, "homeRegion is required", domainErr.Details["homeRegion"])
	assert.Equal(t, "password must be at least 6 characters", domainErr.Details["password"])
}

func TestValidateTrimsRequestFields(t *testing.T) {
	req := &RegisterRequest{
		Name:       " Asha ",
		Email:      " asha@example.com ",
		Phone:      "9876543210 ",
		NationalID: " 123456789012",
		HomeRegion: "Kerala",
		Password:   " secret1 ",
	}
	require.NoError(t, Validate(req))
	assert.Equal(t, "Asha", req.Name)
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "9876543210", req.Phone)
	assert.Equal(t, "123456789012", req.NationalID)
	assert.Equal(t, " secret1 ", req.Password)

	verify := &IdentityVerifyRequest{NationalID: "123456789012 ", OTP: " 123456 "}
	require.NoError(t, Validate(verify))
	assert.Equal(t, "123456", verify.ResolvedCode())
}

func TestVerifyRequestAcceptsEitherCodeField(t *testing.T) {
	assert.Equal(t, "111111", VerifyEmailRequest{Code: "111111", OTP: "222222"}.ResolvedCode())
	assert.Equal(t, "222222", VerifyEmailRequest{OTP: "222222"}.ResolvedCode())
	assert.Equal(t, "333333", IdentityVerifyRequest{OTP: "333333"}.ResolvedCode())
}

func TestValidateTaskRequests(t *testing.T) {
	err := Validate(TaskStatusRequest{Status: "done"})
	domainErr := errorutil.ToDomainError(err)
	require.Equal(t, errorutil.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details["status"], "must be one of")

	bogus := domain.TaskPriority("Someday")
	err = Validate(UpdateTaskRequest{Priority: &bogus})
	assert.True(t, errorutil.HasCode(err, errorutil.CodeValidation))

	assert.NoError(t, Validate(UpdateTaskRequest{}))
}

func TestValidateProfileUpdate(t *testing.T) {
	phone := "123"
	err := Validate(UpdateProfileRequest{Phone: &phone})
	assert.True(t, errorutil.HasCode(err, errorutil.CodeValidation))

	good := "9123456789"
	assert.NoError(t, Validate(UpdateProfileRequest{Phone: &good}))
}
