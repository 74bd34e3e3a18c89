// Package authz is the single decision point for every permission check in
// the API. Resource services call these functions instead of re-deriving
// ownership, membership, and role rules per route.
package authz

import (
	"github.com/crewbase/project-tracker-api/internal/models"
)

// Principal is the authenticated identity attached to a request after
// token verification.
type Principal struct {
	UserID   uint64
	Username string
	Role     models.GlobalRole
}

// IsAdmin reports whether the principal holds the global admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.GlobalRoleAdmin
}

// CanManageUsers gates user administration (listing users, changing global
// roles, toggling activation).
func CanManageUsers(p Principal) bool {
	return p.IsAdmin()
}

// CanEditUser allows a user to edit their own profile, and an admin to
// edit anyone's.
func CanEditUser(p Principal, targetID uint64) bool {
	return p.UserID == targetID || p.IsAdmin()
}

// CanViewProject grants visibility to the project owner and to anyone with
// a membership row. Global admins see every project so that forced
// deletion is reachable. Callers must translate a false result into
// not-found, never forbidden, so that existence does not leak.
func CanViewProject(p Principal, project *models.Project, member *models.ProjectMember) bool {
	if p.IsAdmin() {
		return true
	}
	if project.OwnerID == p.UserID {
		return true
	}
	return member != nil
}

// CanEditProject gates edits to project fields and adding members: the
// owner, members with project role owner or admin, and global admins.
func CanEditProject(p Principal, project *models.Project, member *models.ProjectMember) bool {
	if p.IsAdmin() {
		return true
	}
	if project.OwnerID == p.UserID {
		return true
	}
	return member != nil && (member.Role == models.ProjectRoleOwner || member.Role == models.ProjectRoleAdmin)
}

// CanDeleteProject restricts deletion to the true owner or a global admin.
func CanDeleteProject(p Principal, project *models.Project) bool {
	return project.OwnerID == p.UserID || p.IsAdmin()
}

// CanRemoveMember allows a member to always remove themselves; removing
// anyone else requires project edit rights.
func CanRemoveMember(p Principal, project *models.Project, member *models.ProjectMember, targetUserID uint64) bool {
	if targetUserID == p.UserID {
		return true
	}
	return CanEditProject(p, project, member)
}

// CanMutateTask allows any principal with project access to create or
// update a task.
func CanMutateTask(p Principal, project *models.Project, member *models.ProjectMember) bool {
	return CanViewProject(p, project, member)
}

// CanDeleteTask is narrower than task mutation: the creator, the current
// assignee, the project owner, or a member with project role owner/admin.
func CanDeleteTask(p Principal, task *models.Task, project *models.Project, member *models.ProjectMember) bool {
	if task.CreatorID == p.UserID {
		return true
	}
	if task.AssigneeID != nil && *task.AssigneeID == p.UserID {
		return true
	}
	if project.OwnerID == p.UserID {
		return true
	}
	return member != nil && (member.Role == models.ProjectRoleOwner || member.Role == models.ProjectRoleAdmin)
}

// CanAssignTask validates an assignment target: the assignee must already
// have project access (owner or member). Checked once at assignment time.
func CanAssignTask(assignee *models.User, project *models.Project, assigneeMember *models.ProjectMember) bool {
	if project.OwnerID == assignee.ID {
		return true
	}
	return assigneeMember != nil
}

// CanDropAdmin implements last-admin protection: demoting or deactivating
// a user may not leave the system with zero active admins.
// otherActiveAdmins is the count of active admins excluding the target;
// callers compute it only when the target currently is an active admin.
func CanDropAdmin(target *models.User, otherActiveAdmins int64) bool {
	if target.Role != models.GlobalRoleAdmin || !target.Active {
		return true
	}
	return otherActiveAdmins > 0
}
