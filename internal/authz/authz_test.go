package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crewbase/project-tracker-api/internal/models"
)

var (
	admin   = Principal{UserID: 1, Username: "root", Role: models.GlobalRoleAdmin}
	owner   = Principal{UserID: 2, Username: "owner", Role: models.GlobalRoleMember}
	member  = Principal{UserID: 3, Username: "member", Role: models.GlobalRoleMember}
	outside = Principal{UserID: 4, Username: "outsider", Role: models.GlobalRoleMember}
)

func project() *models.Project {
	return &models.Project{ID: 10, OwnerID: owner.UserID}
}

func membership(role models.ProjectRole) *models.ProjectMember {
	return &models.ProjectMember{ProjectID: 10, UserID: member.UserID, Role: role}
}

func TestCanViewProject(t *testing.T) {
	p := project()

	require.True(t, CanViewProject(owner, p, nil))
	require.True(t, CanViewProject(member, p, membership(models.ProjectRoleViewer)))
	require.True(t, CanViewProject(admin, p, nil))
	require.False(t, CanViewProject(outside, p, nil))
}

func TestCanEditProject(t *testing.T) {
	p := project()

	require.True(t, CanEditProject(owner, p, nil))
	require.True(t, CanEditProject(admin, p, nil))
	require.True(t, CanEditProject(member, p, membership(models.ProjectRoleAdmin)))
	require.False(t, CanEditProject(member, p, membership(models.ProjectRoleMember)))
	require.False(t, CanEditProject(member, p, membership(models.ProjectRoleViewer)))
	require.False(t, CanEditProject(outside, p, nil))
}

func TestCanDeleteProject(t *testing.T) {
	p := project()

	require.True(t, CanDeleteProject(owner, p))
	require.True(t, CanDeleteProject(admin, p))
	// Project-role admin is not enough for deletion
	require.False(t, CanDeleteProject(member, p))
}

func TestCanRemoveMember(t *testing.T) {
	p := project()

	// Self-removal is always allowed
	require.True(t, CanRemoveMember(member, p, membership(models.ProjectRoleViewer), member.UserID))
	// Removing someone else requires edit rights
	require.False(t, CanRemoveMember(member, p, membership(models.ProjectRoleMember), outside.UserID))
	require.True(t, CanRemoveMember(owner, p, nil, member.UserID))
}

func TestCanDeleteTask(t *testing.T) {
	p := project()
	assigneeID := member.UserID
	task := &models.Task{ID: 20, ProjectID: p.ID, CreatorID: outside.UserID, AssigneeID: &assigneeID}

	require.True(t, CanDeleteTask(Principal{UserID: outside.UserID}, task, p, nil), "creator")
	require.True(t, CanDeleteTask(member, task, p, membership(models.ProjectRoleViewer)), "assignee")
	require.True(t, CanDeleteTask(owner, task, p, nil), "project owner")
	// The global-admin bypass covers user management and forced project
	// deletion, not individual task deletion
	require.False(t, CanDeleteTask(admin, task, p, nil))

	other := Principal{UserID: 99, Role: models.GlobalRoleMember}
	require.False(t, CanDeleteTask(other, task, p, &models.ProjectMember{Role: models.ProjectRoleMember}))
	require.True(t, CanDeleteTask(other, task, p, &models.ProjectMember{Role: models.ProjectRoleAdmin}))
}

func TestCanAssignTask(t *testing.T) {
	p := project()

	require.True(t, CanAssignTask(&models.User{ID: owner.UserID}, p, nil), "owner without membership row")
	require.True(t, CanAssignTask(&models.User{ID: member.UserID}, p, membership(models.ProjectRoleMember)))
	require.False(t, CanAssignTask(&models.User{ID: outside.UserID}, p, nil))
}

func TestCanDropAdmin(t *testing.T) {
	activeAdmin := &models.User{ID: 1, Role: models.GlobalRoleAdmin, Active: true}
	inactiveAdmin := &models.User{ID: 2, Role: models.GlobalRoleAdmin, Active: false}
	plainMember := &models.User{ID: 3, Role: models.GlobalRoleMember, Active: true}

	require.False(t, CanDropAdmin(activeAdmin, 0), "sole active admin is protected")
	require.True(t, CanDropAdmin(activeAdmin, 1))
	require.True(t, CanDropAdmin(inactiveAdmin, 0), "inactive admin does not count")
	require.True(t, CanDropAdmin(plainMember, 0))
}
