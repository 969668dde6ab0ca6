package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, err := m.Issue("admin@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Issue("a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Nanosecond)
	tok, err := m.Issue("a@b.c", "admin")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestGetBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", GetBearerToken(r))

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", GetBearerToken(r))

	r.Header.Set("Authorization", "Basic something")
	assert.Equal(t, "", GetBearerToken(r))
}
