package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Justin322322/roofcal-server/internal/entity"
	"github.com/Justin322322/roofcal-server/internal/repository"
)

// Notifier is the out-of-scope notification collaborator. The default
// implementation does nothing; delivery lives in another system.
type Notifier interface {
	ProjectStatusChanged(ctx context.Context, project *entity.Project, oldStatus string)
}

type noopNotifier struct{}

func (noopNotifier) ProjectStatusChanged(context.Context, *entity.Project, string) {}

// ProjectService drives the allocation engine from workflow transitions.
// Reserve and Consume failures block the transition; Return failures are
// logged and the transition proceeds, because a committed status change
// outranks inventory bookkeeping.
type ProjectService struct {
	projects *repository.ProjectRepository
	engine   *AllocationService
	notifier Notifier
	logger   *zap.Logger
}

func NewProjectService(projects *repository.ProjectRepository, engine *AllocationService, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		engine:   engine,
		notifier: noopNotifier{},
		logger:   logger,
	}
}

// SetNotifier swaps in a delivery implementation.
func (s *ProjectService) SetNotifier(n Notifier) {
	if n != nil {
		s.notifier = n
	}
}

// ChangeStatus applies a workflow transition and its material side effect.
func (s *ProjectService) ChangeStatus(ctx context.Context, projectID, newStatus string) *OperationResult {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return failure(ErrProjectNotFound, "project not found")
	}
	oldStatus := project.Status

	switch newStatus {
	case entity.ProjectStatusApproved:
		if res := s.engine.Reserve(ctx, projectID); !res.Success {
			return res
		}
	case entity.ProjectStatusInProgress:
		if res := s.engine.Consume(ctx, projectID); !res.Success {
			return res
		}
	case entity.ProjectStatusRejected, entity.ProjectStatusCancelled, entity.ProjectStatusArchived:
		reason := "project " + strings.ToLower(newStatus)
		if res := s.engine.Return(ctx, projectID, reason); !res.Success {
			// Best effort: the status change is already authoritative.
			s.logger.Warn("material return failed, proceeding with status change",
				zap.String("project_id", projectID),
				zap.String("status", newStatus),
				zap.String("error", res.Error),
				zap.String("detail", res.Message),
			)
		}
	}

	if err := s.projects.UpdateStatus(ctx, projectID, newStatus); err != nil {
		s.logger.Error("status update failed", zap.String("project_id", projectID), zap.Error(err))
		return failure(ErrUnknown, "internal error")
	}

	project.Status = newStatus
	s.notifier.ProjectStatusChanged(ctx, project, oldStatus)
	return success(fmt.Sprintf("project %s moved to %s", project.Name, newStatus))
}
