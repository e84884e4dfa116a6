package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(signup{Email: "nope", Password: "123"})
	assert.Equal(t, map[string]string{"email": "email", "password": "min"}, errs)
	assert.Nil(t, Validate(signup{Email: "a@b.co", Password: "123456"}))
}

func TestFieldsSorted(t *testing.T) {
	assert.Equal(t, []string{"email", "password"}, Fields(signup{}))
	assert.Nil(t, Fields(signup{Email: "a@b.co", Password: "secret1"}))
}

func TestVar(t *testing.T) {
	assert.True(t, Var("guest@resort.test", "required,email"))
	assert.False(t, Var("guest@", "required,email"))
}
