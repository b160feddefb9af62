package auth_test

import (
	"testing"

	"github.com/echess/club-api/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	assert.False(t, auth.CheckPassword("wrong password", hash))
	assert.False(t, auth.CheckPassword("correct horse battery staple", "not a hash"))
}
