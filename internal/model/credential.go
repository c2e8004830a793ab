package model

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

// redacted replaces the password wherever a Credential is printed.
const redacted = "***REDACTED***"

// validate is shared because validator caches struct metadata per instance.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		panic("register notblank validation: " + err.Error())
	}
}

// notBlank rejects strings that are empty once surrounding whitespace is removed.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Credential is the email/password pair being checked.
// It is held in memory for the duration of one check only.
type Credential struct {
	// Email is the address searched at the breach providers.
	Email string `validate:"required,contains=@"`

	// Password is hashed locally; only a hash prefix leaves the process.
	Password string `validate:"notblank"` //nolint:gosec // not a hardcoded secret
}

// NewCredential builds a Credential, trimming whitespace around the email.
// The password is kept verbatim because surrounding spaces are part of it.
func NewCredential(email, password string) Credential {
	return Credential{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
}

// Validate checks the only accepted input rules: a non-empty email containing
// "@" and a non-blank password. It returns ErrInvalidEmail or ErrEmptyPassword.
func (c Credential) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	// Fields are reported in declaration order, so email errors win.
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			return ErrInvalidEmail
		case "Password":
			return ErrEmptyPassword
		}
	}
	return err
}

// String never includes the password.
func (c Credential) String() string {
	return c.Email + ":" + redacted
}

// LogValue implements slog.LogValuer so a Credential logged by accident
// cannot leak the password.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", c.Email),
		slog.String("password", redacted),
	)
}
