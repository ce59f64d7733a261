package service

import (
	"testing"

	"github.com/ccabucoo/chick-n-needs/internal/auth/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "strong password", password: "Str0ngP@ss", ok: true},
		{name: "no special character still passes", password: "Str0ngPass", ok: true},
		{name: "short and common", password: "abc123", ok: false},
		{name: "all lowercase", password: "alllowercase", ok: false},
		{name: "common pattern drags score down", password: "Password1", ok: false},
		{name: "strong with every class", password: "xK9$mWq2Lp", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := passwordStrength(tt.password)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestValidateRegisterInput(t *testing.T) {
	valid := func() dto.RegisterInput {
		return dto.RegisterInput{
			FirstName:       "Juan",
			LastName:        "Dela Cruz",
			Username:        "juandc",
			Email:           "juan@example.com",
			Password:        "Str0ngP@ss",
			ConfirmPassword: "Str0ngP@ss",
		}
	}

	t.Run("valid input", func(t *testing.T) {
		input := valid()
		assert.Nil(t, validateRegisterInput(&input))
	})

	t.Run("normalizes email and username", func(t *testing.T) {
		input := valid()
		input.Email = "  Juan@Example.COM "
		input.Username = " JuanDC "
		require.Nil(t, validateRegisterInput(&input))
		assert.Equal(t, "juan@example.com", input.Email)
		assert.Equal(t, "juandc", input.Username)
	})

	t.Run("short first name", func(t *testing.T) {
		input := valid()
		input.FirstName = "J"
		verr := validateRegisterInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "firstName", verr.Fields[0].Field)
	})

	t.Run("username with illegal characters", func(t *testing.T) {
		input := valid()
		input.Username = "juan dc!"
		verr := validateRegisterInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "username", verr.Fields[0].Field)
	})

	t.Run("bad email", func(t *testing.T) {
		input := valid()
		input.Email = "not-an-email"
		verr := validateRegisterInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "email", verr.Fields[0].Field)
	})

	t.Run("collects multiple problems", func(t *testing.T) {
		input := valid()
		input.FirstName = ""
		input.Email = "bad"
		input.ConfirmPassword = "different"
		verr := validateRegisterInput(&input)
		require.NotNil(t, verr)
		assert.Len(t, verr.Fields, 3)
	})
}

func TestValidateLoginInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		input := dto.LoginInput{Email: "demo@example.com", Password: "password123"}
		assert.Nil(t, validateLoginInput(&input))
	})

	t.Run("missing password", func(t *testing.T) {
		input := dto.LoginInput{Email: "demo@example.com"}
		verr := validateLoginInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "password", verr.Fields[0].Field)
	})

	t.Run("bad email", func(t *testing.T) {
		input := dto.LoginInput{Email: "demo@", Password: "password123"}
		verr := validateLoginInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "email", verr.Fields[0].Field)
	})
}

func TestValidateProfileInput(t *testing.T) {
	t.Run("empty fields allowed", func(t *testing.T) {
		input := dto.UpdateProfileInput{}
		assert.Nil(t, validateProfileInput(&input))
	})

	t.Run("valid phone and address", func(t *testing.T) {
		input := dto.UpdateProfileInput{Phone: "+63 912 345 6789", Address: "123 Poultry Rd, Manila"}
		assert.Nil(t, validateProfileInput(&input))
	})

	t.Run("bad phone", func(t *testing.T) {
		input := dto.UpdateProfileInput{Phone: "call me"}
		verr := validateProfileInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "phone", verr.Fields[0].Field)
	})

	t.Run("short address", func(t *testing.T) {
		input := dto.UpdateProfileInput{Address: "abc"}
		verr := validateProfileInput(&input)
		require.NotNil(t, verr)
		assert.Equal(t, "address", verr.Fields[0].Field)
	})
}
