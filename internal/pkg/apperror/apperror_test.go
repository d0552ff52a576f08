package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusCode(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:       http.StatusBadRequest,
		KindUnauthorized:     http.StatusUnauthorized,
		KindResourceNotFound: http.StatusNotFound,
		KindInternal:         http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.StatusCode())
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("update profile: %w", ResourceNotFound("User not found!").WithCause(cause))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindResourceNotFound, appErr.Kind)
	assert.Equal(t, "User not found!: boom", appErr.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindResourceNotFound))
	assert.False(t, IsKind(err, KindBadRequest))
}

func TestWithCause_DoesNotMutateOriginal(t *testing.T) {
	base := BadRequest("bad")
	derived := base.WithCause(errors.New("x"))

	assert.Nil(t, base.Cause)
	assert.NotNil(t, derived.Cause)
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}
