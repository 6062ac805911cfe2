package repository

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
)

// Repository stores issues grouped by project name.
//
// Update and Delete return domain.ErrIssueNotFound when the project or the
// issue does not exist.
type Repository interface {
	List(ctx context.Context, project string, f domain.Filter) ([]domain.Issue, error)
	Create(ctx context.Context, project string, issue *domain.Issue) error
	Update(ctx context.Context, project, id string, patch domain.Patch, now time.Time) (*domain.Issue, error)
	Delete(ctx context.Context, project, id string) error
	EnsureProject(ctx context.Context, project string) error
	Projects(ctx context.Context) ([]domain.ProjectSummary, error)
	Ping(ctx context.Context) error
}
