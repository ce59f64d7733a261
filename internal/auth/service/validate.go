package service

import (
	"regexp"
	"strings"

	"github.com/ccabucoo/chick-n-needs/internal/auth/dto"
	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
)

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Z\s\-'\.]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_\.]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe    = regexp.MustCompile(`^[\+]?[0-9\s\-()]{7,20}$`)
	commonRe   = regexp.MustCompile(`(?i)(123|abc|password|qwerty|admin)`)
)

// weakPasswords are rejected outright regardless of their strength score.
var weakPasswords = map[string]struct{}{
	"password": {}, "123456": {}, "qwerty": {}, "admin": {}, "letmein": {},
}

// passwordStrength scores a candidate against six checks: length bounds,
// lowercase, uppercase, digit, special character and absence of common
// patterns. Five of six must pass.
func passwordStrength(password string) (int, bool) {
	score := 0
	if len(password) >= 8 && len(password) <= 128 {
		score++
	}
	if strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		score++
	}
	if strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		score++
	}
	if strings.ContainsAny(password, "0123456789") {
		score++
	}
	if strings.ContainsAny(password, "@$!%*?&") {
		score++
	}
	if !commonRe.MatchString(password) {
		score++
	}
	return score, score >= 5
}

func validateRegisterInput(input *dto.RegisterInput) *autherror.ValidationError {
	var fields []autherror.FieldError

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if l := len(input.FirstName); l < 2 || l > 100 || !nameRe.MatchString(input.FirstName) {
		fields = append(fields, autherror.FieldError{
			Field:   "firstName",
			Message: "First name must be between 2 and 100 characters",
		})
	}
	if l := len(input.LastName); l < 2 || l > 100 || !nameRe.MatchString(input.LastName) {
		fields = append(fields, autherror.FieldError{
			Field:   "lastName",
			Message: "Last name must be between 2 and 100 characters",
		})
	}
	if !usernameRe.MatchString(input.Username) {
		fields = append(fields, autherror.FieldError{
			Field:   "username",
			Message: "Username must be between 3 and 50 characters",
		})
	}
	if len(input.Email) > 254 || !emailRe.MatchString(input.Email) {
		fields = append(fields, autherror.FieldError{
			Field:   "email",
			Message: "A valid email address is required",
		})
	}
	if input.Password != input.ConfirmPassword {
		fields = append(fields, autherror.FieldError{
			Field:   "confirmPassword",
			Message: "Passwords do not match",
		})
	}

	if len(fields) > 0 {
		return autherror.NewValidationError(fields...)
	}
	return nil
}

func validateLoginInput(input *dto.LoginInput) *autherror.ValidationError {
	var fields []autherror.FieldError

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if len(input.Email) > 254 || !emailRe.MatchString(input.Email) {
		fields = append(fields, autherror.FieldError{
			Field:   "email",
			Message: "A valid email address is required",
		})
	}
	if input.Password == "" || len(input.Password) > 128 {
		fields = append(fields, autherror.FieldError{
			Field:   "password",
			Message: "Password is required and must be less than 128 characters",
		})
	}

	if len(fields) > 0 {
		return autherror.NewValidationError(fields...)
	}
	return nil
}

func validateProfileInput(input *dto.UpdateProfileInput) *autherror.ValidationError {
	var fields []autherror.FieldError

	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)

	if input.Phone != "" && !phoneRe.MatchString(input.Phone) {
		fields = append(fields, autherror.FieldError{
			Field:   "phone",
			Message: "Phone number format is invalid",
		})
	}
	if input.Address != "" && len(input.Address) < 5 {
		fields = append(fields, autherror.FieldError{
			Field:   "address",
			Message: "Address must be at least 5 characters",
		})
	}

	if len(fields) > 0 {
		return autherror.NewValidationError(fields...)
	}
	return nil
}
