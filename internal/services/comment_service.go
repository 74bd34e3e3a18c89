package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/constants"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
)

var ErrCommentContentRequired = errors.New("comment content is required")

// CommentService handles the append-only comment log on tasks.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskService *TaskService
	activity    *ActivityService
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskService *TaskService, activity *ActivityService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskService: taskService,
		activity:    activity,
	}
}

// CreateComment appends a comment to a task the principal can see.
// Comments have no edit or delete path.
func (s *CommentService) CreateComment(principal authz.Principal, taskID uint64, content string) (*models.Comment, error) {
	task, _, _, err := s.taskService.visibleTask(principal, taskID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentContentRequired
	}

	comment := &models.Comment{
		TaskID:   task.ID,
		AuthorID: principal.UserID,
		Content:  content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionCommentCreated, constants.EntityComment, comment.ID, &task.ProjectID, "")

	return comment, nil
}

// ListComments lists a task's comments for principals with visibility.
func (s *CommentService) ListComments(principal authz.Principal, taskID uint64) ([]models.Comment, error) {
	if _, _, _, err := s.taskService.visibleTask(principal, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
