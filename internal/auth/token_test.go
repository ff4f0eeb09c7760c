package auth

import (
	"strings"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, DefaultTokenTTL, "quill-api", "quill-clients")
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour, "iss", "aud")
	assert.Error(t, err)
}

func TestTokenManager_IssueVerify(t *testing.T) {
	m := newTestManager(t)
	id := models.Identity{UserID: "2f9b7d7e-2c1e-4d55-9d7e-1f7a0c2b9e11", Email: "jane@example.com", Role: models.RoleAdmin}

	token, err := m.Issue(id)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_Expiry(t *testing.T) {
	m := newTestManager(t)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue(models.Identity{UserID: "u1", Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(DefaultTokenTTL - time.Minute) }
	_, err = m.Verify(token)
	assert.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(DefaultTokenTTL + time.Second) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := newTestManager(t)
	valid, err := m.Issue(models.Identity{UserID: "u1", Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret-key-123456789012345678901", DefaultTokenTTL, "quill-api", "quill-clients")
	require.NoError(t, err)
	foreignSig, err := other.Issue(models.Identity{UserID: "u1", Role: models.RoleUser})
	require.NoError(t, err)

	wrongAud, err := NewTokenManager(testSecret, DefaultTokenTTL, "quill-api", "someone-else")
	require.NoError(t, err)
	wrongAudToken, err := wrongAud.Issue(models.Identity{UserID: "u1", Role: models.RoleUser})
	require.NoError(t, err)

	unsignedMethod := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1",
		"sub":    "u1",
		"role":   "admin",
		"iss":    "quill-api",
		"aud":    "quill-clients",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	noneToken, err := unsignedMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"sub":    "u1",
		"role":   "superuser",
		"iss":    "quill-api",
		"aud":    "quill-clients",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	badRoleToken, err := badRole.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "malformed.token.here"},
		{"tampered", valid[:len(valid)-2] + flip(valid[len(valid)-2:])},
		{"foreign signature", foreignSig},
		{"wrong audience", wrongAudToken},
		{"alg none", noneToken},
		{"unknown role", badRoleToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateJTI_Unique(t *testing.T) {
	now := time.Now()
	a, b := generateJTI(now), generateJTI(now)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, strings.Split(b, "-")[0]))
}

func flip(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}
