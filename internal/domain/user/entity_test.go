package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsSoftDeleted(t *testing.T) {
	now := time.Now()

	assert.False(t, (&User{}).IsSoftDeleted())
	assert.True(t, (&User{DeletedAt: &now}).IsSoftDeleted())
	assert.True(t, (&User{IsDeleted: true}).IsSoftDeleted())
	assert.False(t, (*User)(nil).IsSoftDeleted())
}

func TestPatch_Touches(t *testing.T) {
	name := "Ada"
	assert.True(t, Patch{FirstName: &name}.TouchesUser())
	assert.False(t, Patch{FirstName: &name}.TouchesProfile())
	assert.True(t, Patch{SocialLinks: map[string]string{}}.TouchesProfile())
	assert.False(t, Patch{}.TouchesUser())
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID("6f1c9a52-7a0e-4d43-9d57-2f3f3b8f6c10"))
	assert.False(t, IsValidID("not-a-uuid"))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("6f1c9a527a0e4d439d572f3f3b8f6c10"))
	assert.False(t, IsValidID("{6f1c9a52-7a0e-4d43-9d57-2f3f3b8f6c10}"))
	assert.False(t, IsValidID("6f1c9a52-7a0e-4d43-9d57-2f3f3b8f6cZZ"))
}
