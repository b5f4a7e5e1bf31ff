package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken("secret", RoleDoctor, "7")
	require.NoError(t, err)

	claims, err := parseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken("secret", RoleAdmin, "admin")
	require.NoError(t, err)

	_, err = parseToken("other", token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := parseToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestTokensAreUnique(t *testing.T) {
	a, err := IssueToken("secret", RoleAdmin, "admin")
	require.NoError(t, err)
	b, err := IssueToken("secret", RoleAdmin, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
