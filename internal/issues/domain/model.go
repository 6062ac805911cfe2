package domain

import "time"

// Issue is a single trackable record inside a project.
type Issue struct {
	ID         string    `json:"_id"`
	IssueTitle string    `json:"issue_title"`
	IssueText  string    `json:"issue_text"`
	CreatedBy  string    `json:"created_by"`
	AssignedTo string    `json:"assigned_to"`
	StatusText string    `json:"status_text"`
	Open       bool      `json:"open"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// ProjectSummary is the listing entry for a known project.
type ProjectSummary struct {
	Name       string `json:"name"`
	IssueCount int    `json:"issue_count"`
}

// CreateIssueRequest carries the client-supplied fields of a new issue.
type CreateIssueRequest struct {
	IssueTitle string
	IssueText  string
	CreatedBy  string
	AssignedTo string
	StatusText string
}

// Patch lists the mutable fields of an issue. Nil means "not sent".
type Patch struct {
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.IssueTitle == nil &&
		p.IssueText == nil &&
		p.CreatedBy == nil &&
		p.AssignedTo == nil &&
		p.StatusText == nil &&
		p.Open == nil
}

// Normalize drops empty required fields, which clients send for untouched
// inputs. Optional fields keep "" so they can be cleared.
func (p Patch) Normalize() Patch {
	p.IssueTitle = nonEmpty(p.IssueTitle)
	p.IssueText = nonEmpty(p.IssueText)
	p.CreatedBy = nonEmpty(p.CreatedBy)
	return p
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

// Apply merges the patch into the issue and stamps UpdatedOn, which never
// moves backwards. Required fields are never blanked.
func (p Patch) Apply(issue *Issue, now time.Time) {
	setRequired(&issue.IssueTitle, p.IssueTitle)
	setRequired(&issue.IssueText, p.IssueText)
	setRequired(&issue.CreatedBy, p.CreatedBy)
	if p.AssignedTo != nil {
		issue.AssignedTo = *p.AssignedTo
	}
	if p.StatusText != nil {
		issue.StatusText = *p.StatusText
	}
	if p.Open != nil {
		issue.Open = *p.Open
	}
	if now.After(issue.UpdatedOn) {
		issue.UpdatedOn = now
	}
}

func setRequired(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// Timestamp normalises t to the precision stored by every backend.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
