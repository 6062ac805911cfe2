package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
)

// MemoryRepository keeps every project in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string][]*domain.Issue
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[string][]*domain.Issue),
	}
}

// List returns copies of the matching issues in insertion order
func (r *MemoryRepository) List(_ context.Context, project string, f domain.Filter) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Issue, 0)
	for _, issue := range r.projects[project] {
		if f.Matches(*issue) {
			out = append(out, *issue)
		}
	}
	return out, nil
}

// Create appends the issue, creating the project on first use
func (r *MemoryRepository) Create(_ context.Context, project string, issue *domain.Issue) error {
	stored := *issue

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects[project] = append(r.projects[project], &stored)
	return nil
}

// Update patches the issue in place
func (r *MemoryRepository) Update(_ context.Context, project, id string, patch domain.Patch, now time.Time) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues, ok := r.projects[project]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	for _, issue := range issues {
		if issue.ID == id {
			patch.Apply(issue, now)
			updated := *issue
			return &updated, nil
		}
	}
	return nil, domain.ErrIssueNotFound
}

// Delete removes the issue from its project
func (r *MemoryRepository) Delete(_ context.Context, project, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues, ok := r.projects[project]
	if !ok {
		return domain.ErrIssueNotFound
	}
	for i, issue := range issues {
		if issue.ID == id {
			r.projects[project] = append(issues[:i:i], issues[i+1:]...)
			return nil
		}
	}
	return domain.ErrIssueNotFound
}

// EnsureProject registers an empty project if it is unknown
func (r *MemoryRepository) EnsureProject(_ context.Context, project string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[project]; !ok {
		r.projects[project] = []*domain.Issue{}
	}
	return nil
}

// Projects lists known projects sorted by name
func (r *MemoryRepository) Projects(_ context.Context) ([]domain.ProjectSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ProjectSummary, 0, len(r.projects))
	for name, issues := range r.projects {
		out = append(out, domain.ProjectSummary{Name: name, IssueCount: len(issues)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Export copies the whole store, keyed by project name.
func (r *MemoryRepository) Export() map[string][]domain.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]domain.Issue, len(r.projects))
	for name, issues := range r.projects {
		list := make([]domain.Issue, len(issues))
		for i, issue := range issues {
			list[i] = *issue
		}
		out[name] = list
	}
	return out
}

// Import replaces the store contents with data.
func (r *MemoryRepository) Import(data map[string][]domain.Issue) {
	projects := make(map[string][]*domain.Issue, len(data))
	for name, issues := range data {
		list := make([]*domain.Issue, len(issues))
		for i := range issues {
			issue := issues[i]
			list[i] = &issue
		}
		projects[name] = list
	}

	r.mu.Lock()
	r.projects = projects
	r.mu.Unlock()
}
