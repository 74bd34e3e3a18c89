package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndListComments(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner, member, project := env.setupProject(t)

	task, err := env.tasks.CreateTask(principalFor(owner), CreateTaskInput{ProjectID: project.ID, Title: "Write docs"})
	require.NoError(t, err)

	first, err := env.comments.CreateComment(principalFor(member), task.ID, "starting today")
	require.NoError(t, err)
	require.Equal(t, member.ID, first.AuthorID)

	_, err = env.comments.CreateComment(principalFor(owner), task.ID, "thanks")
	require.NoError(t, err)

	comments, err := env.comments.ListComments(principalFor(owner), task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "starting today", comments[0].Content, "oldest first")
}

func TestCommentRequiresContent(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner, _, project := env.setupProject(t)

	task, err := env.tasks.CreateTask(principalFor(owner), CreateTaskInput{ProjectID: project.ID, Title: "Write docs"})
	require.NoError(t, err)

	_, err = env.comments.CreateComment(principalFor(owner), task.ID, "   ")
	require.ErrorIs(t, err, ErrCommentContentRequired)
}

func TestCommentHiddenTask(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner, _, project := env.setupProject(t)
	outsider := env.registerUser(t, "outsider")

	task, err := env.tasks.CreateTask(principalFor(owner), CreateTaskInput{ProjectID: project.ID, Title: "Write docs"})
	require.NoError(t, err)

	_, err = env.comments.CreateComment(principalFor(outsider), task.ID, "sneaky")
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = env.comments.ListComments(principalFor(outsider), task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
