package validator

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

type inviteRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,min=3,max=100"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	is := is.New(t)
	v := NewValidator()

	err := v.Validate(inviteRequest{Email: "not-an-email", Name: "ab"})
	is.True(err != nil)

	var verrs *Errors
	is.True(errors.As(err, &verrs))
	is.True(verrs.Has("tenantId"))
	is.True(verrs.Has("email"))
	is.True(verrs.Has("name"))
	is.Equal(err.Error(), "tenantId is required; email must be a valid email address; name must be at least 3 characters")
}

func TestValidatePasses(t *testing.T) {
	is := is.New(t)
	is.NoErr(NewValidator().Validate(inviteRequest{TenantID: "t", Email: "a@b.com"}))
}
