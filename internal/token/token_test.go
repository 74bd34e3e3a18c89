package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewbase/project-tracker-api/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Username: "alice",
		Role:     models.GlobalRoleAdmin,
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", 7*24*time.Hour, 24*time.Hour)

	signed, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	principal, claims, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(42), principal.UserID)
	require.Equal(t, "alice", principal.Username)
	require.Equal(t, models.GlobalRoleAdmin, principal.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Hour, 24*time.Hour)

	signed, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, _, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSignature(t *testing.T) {
	issuer := NewService("secret-one", time.Hour, 24*time.Hour)
	verifier := NewService("secret-two", time.Hour, 24*time.Hour)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, _, err = verifier.Verify(signed)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour, 24*time.Hour)

	_, _, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestShouldRefresh(t *testing.T) {
	// Remaining lifetime above the window: no refresh
	longLived := NewService("test-secret", 7*24*time.Hour, 24*time.Hour)
	signed, err := longLived.Issue(testUser())
	require.NoError(t, err)

	_, claims, err := longLived.Verify(signed)
	require.NoError(t, err)
	require.False(t, longLived.ShouldRefresh(claims))

	// Remaining lifetime under the window: refresh
	nearExpiry := NewService("test-secret", 2*time.Hour, 24*time.Hour)
	signed, err = nearExpiry.Issue(testUser())
	require.NoError(t, err)

	_, claims, err = nearExpiry.Verify(signed)
	require.NoError(t, err)
	require.True(t, nearExpiry.ShouldRefresh(claims))
}

func TestRefreshCarriesPrincipal(t *testing.T) {
	svc := NewService("test-secret", 2*time.Hour, 24*time.Hour)

	signed, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, claims, err := svc.Verify(signed)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(claims)
	require.NoError(t, err)

	principal, _, err := svc.Verify(refreshed)
	require.NoError(t, err)
	require.Equal(t, uint64(42), principal.UserID)
	require.Equal(t, "alice", principal.Username)
	require.Equal(t, models.GlobalRoleAdmin, principal.Role)
}
