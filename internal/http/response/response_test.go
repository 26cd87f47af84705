package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"session_id": "cs_test_123"})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"session_id": "cs_test_123"}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}

	v := validator.New()

	t.Run("missing required field", func(t *testing.T) {
		err := v.Struct(payload{})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Equal(t, StatusError, resp.Status)
		assert.Equal(t, "field Email is a required field", resp.Error)
	})

	t.Run("malformed email", func(t *testing.T) {
		err := v.Struct(payload{Email: "not-an-email"})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Equal(t, StatusError, resp.Status)
		assert.Equal(t, "field Email must be a valid email", resp.Error)
	})
}
