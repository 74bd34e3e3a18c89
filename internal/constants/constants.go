package constants

// Context keys
const (
	ContextKeyPrincipal = "principal"
)

// Refresh header surfaced by the auth middleware when a token is reissued.
const RefreshTokenHeader = "X-Refresh-Token"

// Password rules
const MinPasswordLength = 8

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Activity log action tags
const (
	ActionProjectCreated  = "project.created"
	ActionProjectUpdated  = "project.updated"
	ActionProjectDeleted  = "project.deleted"
	ActionMemberAdded     = "project.member_added"
	ActionMemberRemoved   = "project.member_removed"
	ActionTaskCreated     = "task.created"
	ActionTaskUpdated     = "task.updated"
	ActionTaskDeleted     = "task.deleted"
	ActionCommentCreated  = "comment.created"
	ActionUserRegistered  = "user.registered"
	ActionUserUpdated     = "user.updated"
	ActionUserRoleChanged = "user.role_changed"
	ActionUserActivation  = "user.activation_changed"
)

// Entity type tags used in activity entries
const (
	EntityProject = "project"
	EntityTask    = "task"
	EntityComment = "comment"
	EntityUser    = "user"
)
