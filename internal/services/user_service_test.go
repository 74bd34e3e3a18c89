package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crewbase/project-tracker-api/internal/models"
)

func TestChangeRoleRequiresAdmin(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	carol := env.registerUser(t, "carol")

	_, err := env.users.ChangeRole(principalFor(bob), carol.ID, models.GlobalRoleManager)
	require.ErrorIs(t, err, ErrUserMgmtForbidden)
}

func TestDemotingSoleAdminIsProtected(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.registerUser(t, "alice")
	require.Equal(t, models.GlobalRoleAdmin, alice.Role)

	_, err := env.users.ChangeRole(principalFor(alice), alice.ID, models.GlobalRoleMember)
	require.ErrorIs(t, err, ErrLastAdminProtected)

	// Role is unchanged after the refused demotion
	reloaded, err := env.users.GetUser(alice.ID)
	require.NoError(t, err)
	require.Equal(t, models.GlobalRoleAdmin, reloaded.Role)
}

func TestDemotionAllowedWithAnotherActiveAdmin(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	_, err := env.users.ChangeRole(principalFor(alice), bob.ID, models.GlobalRoleAdmin)
	require.NoError(t, err)

	demoted, err := env.users.ChangeRole(principalFor(alice), alice.ID, models.GlobalRoleMember)
	require.NoError(t, err)
	require.Equal(t, models.GlobalRoleMember, demoted.Role)
}

func TestDeactivatingSoleAdminIsProtected(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.registerUser(t, "alice")

	_, err := env.users.SetActive(principalFor(alice), alice.ID, false)
	require.ErrorIs(t, err, ErrLastAdminProtected)
}

func TestDeactivationCountsOnlyActiveAdmins(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	_, err := env.users.ChangeRole(principalFor(alice), bob.ID, models.GlobalRoleAdmin)
	require.NoError(t, err)

	// With bob as a second active admin, alice can be deactivated
	_, err = env.users.SetActive(principalFor(alice), alice.ID, false)
	require.NoError(t, err)

	// Now bob is the sole active admin and is protected
	_, err = env.users.SetActive(principalFor(bob), bob.ID, false)
	require.ErrorIs(t, err, ErrLastAdminProtected)
}

func TestUpdateProfile(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	_, err := env.users.UpdateProfile(principalFor(bob), bob.ID, UpdateProfileInput{})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)

	email := "bob2@example.com"
	updated, err := env.users.UpdateProfile(principalFor(bob), bob.ID, UpdateProfileInput{Email: &email})
	require.NoError(t, err)
	require.Equal(t, "bob2@example.com", updated.Email)
}

func TestUpdateProfileForbiddenForOtherUsers(t *testing.T) {
	env := setupServiceTestEnv(t)
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	carol := env.registerUser(t, "carol")

	email := "hijack@example.com"
	_, err := env.users.UpdateProfile(principalFor(bob), carol.ID, UpdateProfileInput{Email: &email})
	require.ErrorIs(t, err, ErrProfileForbidden)

	// Admins can edit anyone
	_, err = env.users.UpdateProfile(principalFor(alice), carol.ID, UpdateProfileInput{Email: &email})
	require.NoError(t, err)
}
