package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssueService validates requests and applies them to a Repository
type IssueService struct {
	repo  repository.Repository
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// Option customises an IssueService
type Option func(*IssueService)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *IssueService) { s.now = now }
}

// WithIDGenerator replaces the issue ID generator
func WithIDGenerator(newID func() string) Option {
	return func(s *IssueService) { s.newID = newID }
}

// NewIssueService creates a new IssueService
func NewIssueService(repo repository.Repository, log *zap.Logger, opts ...Option) *IssueService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &IssueService{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the issues of a project matching every filter
func (s *IssueService) List(ctx context.Context, project string, f domain.Filter) ([]domain.Issue, error) {
	issues, err := s.repo.List(ctx, project, f)
	if err != nil {
		s.log.Error("list issues failed", zap.String("project", project), zap.Error(err))
		return nil, err
	}
	return issues, nil
}

// Create validates req and stores a new open issue
func (s *IssueService) Create(ctx context.Context, project string, req *domain.CreateIssueRequest) (*domain.Issue, error) {
	if req == nil || req.IssueTitle == "" || req.IssueText == "" || req.CreatedBy == "" {
		return nil, domain.ErrRequiredFieldsMissing
	}

	now := domain.Timestamp(s.now())
	issue := &domain.Issue{
		ID:         s.newID(),
		IssueTitle: req.IssueTitle,
		IssueText:  req.IssueText,
		CreatedBy:  req.CreatedBy,
		AssignedTo: req.AssignedTo,
		StatusText: req.StatusText,
		Open:       true,
		CreatedOn:  now,
		UpdatedOn:  now,
	}

	if err := s.repo.Create(ctx, project, issue); err != nil {
		s.log.Error("create issue failed", zap.String("project", project), zap.Error(err))
		return nil, err
	}

	s.log.Debug("issue created", zap.String("project", project), zap.String("issue_id", issue.ID))
	return issue, nil
}

// Update merges patch into the issue identified by id
func (s *IssueService) Update(ctx context.Context, project, id string, patch domain.Patch) (*domain.Issue, error) {
	if id == "" {
		return nil, domain.ErrMissingID
	}
	patch = patch.Normalize()
	if patch.IsEmpty() {
		return nil, domain.ErrNoUpdateFields
	}

	issue, err := s.repo.Update(ctx, project, id, patch, domain.Timestamp(s.now()))
	if err != nil {
		if !errors.Is(err, domain.ErrIssueNotFound) {
			s.log.Error("update issue failed", zap.String("project", project), zap.String("issue_id", id), zap.Error(err))
		}
		return nil, err
	}
	return issue, nil
}

// Delete removes the issue identified by id
func (s *IssueService) Delete(ctx context.Context, project, id string) error {
	if id == "" {
		return domain.ErrMissingID
	}

	if err := s.repo.Delete(ctx, project, id); err != nil {
		if !errors.Is(err, domain.ErrIssueNotFound) {
			s.log.Error("delete issue failed", zap.String("project", project), zap.String("issue_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// Projects lists known projects with their issue counts
func (s *IssueService) Projects(ctx context.Context) ([]domain.ProjectSummary, error) {
	return s.repo.Projects(ctx)
}

// SeedProjects makes sure the named projects exist
func (s *IssueService) SeedProjects(ctx context.Context, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := s.repo.EnsureProject(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks that the backing store is reachable
func (s *IssueService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
