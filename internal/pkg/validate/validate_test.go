package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVar_Email(t *testing.T) {
	assert.NoError(t, Var("email", "a@b.com", "required,email"))

	err := Var("email", "not-an-email", "required,email")
	require.Error(t, err)
	assert.Equal(t, "field 'email' failed 'email'", err.Error())
}

func TestVar_Code(t *testing.T) {
	assert.NoError(t, Var("otp", "123456", "len=6,numeric"))
	assert.Error(t, Var("otp", "12345", "len=6,numeric"))
	assert.Error(t, Var("otp", "12345a", "len=6,numeric"))
}

func TestStruct_NamesFields(t *testing.T) {
	type item struct {
		Role string `validate:"required,oneof=user assistant"`
	}
	type body struct {
		Items []item `validate:"required,min=1,dive"`
	}
	err := Struct(body{Items: []item{{Role: "system"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Role")
	assert.Contains(t, err.Error(), "oneof")

	assert.Error(t, Struct(body{}))
	assert.NoError(t, Struct(body{Items: []item{{Role: "user"}}}))
}
