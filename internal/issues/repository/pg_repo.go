package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const issueColumns = `id, issue_title, issue_text, created_by, assigned_to, status_text, open, created_on, updated_on`

// Schema creates the tables used by PgRepository.
const Schema = `
create table if not exists issue_projects (
	name text primary key
);

create table if not exists issues (
	seq         bigserial   not null,
	id          text        primary key,
	project     text        not null references issue_projects (name),
	issue_title text        not null,
	issue_text  text        not null,
	created_by  text        not null,
	assigned_to text        not null default '',
	status_text text        not null default '',
	open        boolean     not null default true,
	created_on  timestamptz not null,
	updated_on  timestamptz not null
);

create index if not exists issues_project_seq_idx on issues (project, seq);
`

type PgRepository struct {
	db *pgxpool.Pool
}

func NewPgRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, project string, f domain.Filter) ([]domain.Issue, error) {
	out := make([]domain.Issue, 0, 16)
	if f.Invalid {
		return out, nil
	}

	where, args := filterClause(project, f)
	q := `select ` + issueColumns + ` from issues where ` + where + ` order by seq;`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *issue)
	}
	return out, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, project string, issue *domain.Issue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `insert into issue_projects (name) values ($1) on conflict do nothing;`, project); err != nil {
		return fmt.Errorf("register project: %w", err)
	}

	const q = `
insert into issues (id, project, issue_title, issue_text, created_by, assigned_to, status_text, open, created_on, updated_on)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err = tx.Exec(ctx, q,
		issue.ID, project, issue.IssueTitle, issue.IssueText, issue.CreatedBy,
		issue.AssignedTo, issue.StatusText, issue.Open, issue.CreatedOn, issue.UpdatedOn)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) Update(ctx context.Context, project, id string, patch domain.Patch, now time.Time) (*domain.Issue, error) {
	patch = patch.Normalize()

	const q = `
update issues
set issue_title = coalesce($3, issue_title),
    issue_text  = coalesce($4, issue_text),
    created_by  = coalesce($5, created_by),
    assigned_to = coalesce($6, assigned_to),
    status_text = coalesce($7, status_text),
    open        = coalesce($8, open),
    updated_on  = greatest($9, updated_on)
where project = $1 and id = $2
returning ` + issueColumns + `;
`
	row := r.db.QueryRow(ctx, q, project, id,
		patch.IssueTitle, patch.IssueText, patch.CreatedBy,
		patch.AssignedTo, patch.StatusText, patch.Open, now)

	issue, err := scanIssue(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIssueNotFound
	}
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *PgRepository) Delete(ctx context.Context, project, id string) error {
	ct, err := r.db.Exec(ctx, `delete from issues where project = $1 and id = $2;`, project, id)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (r *PgRepository) EnsureProject(ctx context.Context, project string) error {
	if _, err := r.db.Exec(ctx, `insert into issue_projects (name) values ($1) on conflict do nothing;`, project); err != nil {
		return fmt.Errorf("register project: %w", err)
	}
	return nil
}

func (r *PgRepository) Projects(ctx context.Context) ([]domain.ProjectSummary, error) {
	const q = `
select p.name, count(i.id)
from issue_projects p
left join issues i on i.project = p.name
group by p.name
order by p.name;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectSummary, 0, 16)
	for rows.Next() {
		var p domain.ProjectSummary
		if err := rows.Scan(&p.Name, &p.IssueCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// filterClause builds the WHERE clause for f. $1 is always the project.
func filterClause(project string, f domain.Filter) (string, []any) {
	conds := []string{"project = $1"}
	args := []any{project}

	add := func(column string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.ID != nil {
		add("id", *f.ID)
	}
	if f.IssueTitle != nil {
		add("issue_title", *f.IssueTitle)
	}
	if f.IssueText != nil {
		add("issue_text", *f.IssueText)
	}
	if f.CreatedBy != nil {
		add("created_by", *f.CreatedBy)
	}
	if f.AssignedTo != nil {
		add("assigned_to", *f.AssignedTo)
	}
	if f.StatusText != nil {
		add("status_text", *f.StatusText)
	}
	if f.Open != nil {
		add("open", *f.Open)
	}
	if f.CreatedOn != nil {
		add("created_on", *f.CreatedOn)
	}
	if f.UpdatedOn != nil {
		add("updated_on", *f.UpdatedOn)
	}

	return strings.Join(conds, " and "), args
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var i domain.Issue
	err := row.Scan(&i.ID, &i.IssueTitle, &i.IssueText, &i.CreatedBy, &i.AssignedTo,
		&i.StatusText, &i.Open, &i.CreatedOn, &i.UpdatedOn)
	if err != nil {
		return nil, err
	}
	i.CreatedOn = domain.Timestamp(i.CreatedOn)
	i.UpdatedOn = domain.Timestamp(i.UpdatedOn)
	return &i, nil
}
