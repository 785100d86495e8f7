package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	user := &User{
		Fullname: "Juan Dela Cruz",
		Username: "juandc",
		Email:    "juan@example.com",
	}
	assert.Empty(t, ValidateStruct(user))
}

func TestValidateStructReportsEachFailure(t *testing.T) {
	user := &User{
		Fullname: "J",
		Username: "ok",
		Email:    "not-an-email",
	}
	errs := ValidateStruct(user)
	assert.Len(t, errs, 2)

	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	assert.Contains(t, messages[0], "Fullname")
	assert.Contains(t, messages[1], "Email")
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough"))
}

func TestValidateWhiteSpaces(t *testing.T) {
	user := &User{
		Fullname: "  Juan Dela Cruz  ",
		Username: " juandc ",
		Email:    "juan@example.com",
	}
	assert.NoError(t, ValidateWhiteSpaces(user))
	assert.Equal(t, "Juan Dela Cruz", user.Fullname)
	assert.Equal(t, "juandc", user.Username)
}
