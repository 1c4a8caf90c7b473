// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registrationInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,strong_password"`
}

func TestValidateStructAcceptsGoodInput(t *testing.T) {
	err := ValidateStruct(&registrationInput{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "Sup3r$ecret",
	})
	assert.NoError(t, err)
}

func TestStrongPasswordRule(t *testing.T) {
	weak := []string{
		"short1$A",         // valid, control
		"alllowercase1$",   // no uppercase
		"ALLUPPERCASE1$",   // no lowercase
		"NoDigitsHere$",    // no number
		"NoSpecials123A",   // no symbol
		"Ab1$",             // too short
	}

	for i, password := range weak {
		err := ValidateStruct(&registrationInput{
			Username: "jane_doe",
			Email:    "jane@example.com",
			Password: password,
		})
		if i == 0 {
			assert.NoError(t, err, password)
		} else {
			assert.Error(t, err, password)
		}
	}
}

func TestUsernameRule(t *testing.T) {
	for _, username := range []string{"ab", "has space", "has-dash", "ümlaut"} {
		err := ValidateStruct(&registrationInput{
			Username: username,
			Email:    "jane@example.com",
			Password: "Sup3r$ecret",
		})
		assert.Error(t, err, username)
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&registrationInput{Username: "jane_doe", Email: "not-an-email", Password: "Sup3r$ecret"})
	errs := GetValidationErrors(err)

	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "Invalid email format", errs[0].Message)
}
