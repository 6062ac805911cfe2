package http

import (
	"fmt"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/service"
)

// Handler handles HTTP requests for issues
type Handler struct {
	svc *service.IssueService
}

// New creates a new Handler
func New(svc *service.IssueService) *Handler {
	return &Handler{svc: svc}
}

// createIssueReq is the POST body. Forms and JSON are both accepted.
type createIssueReq struct {
	IssueTitle string `json:"issue_title" form:"issue_title"`
	IssueText  string `json:"issue_text" form:"issue_text"`
	CreatedBy  string `json:"created_by" form:"created_by"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	StatusText string `json:"status_text" form:"status_text"`
}

func (r createIssueReq) toDomain() *domain.CreateIssueRequest {
	return &domain.CreateIssueRequest{
		IssueTitle: r.IssueTitle,
		IssueText:  r.IssueText,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		StatusText: r.StatusText,
	}
}

// updateIssueReq is the PUT body. Only these keys can change an issue.
// JSON carries open as a boolean, forms as text in OpenForm.
type updateIssueReq struct {
	ID         string  `json:"_id" form:"_id"`
	IssueTitle *string `json:"issue_title" form:"issue_title"`
	IssueText  *string `json:"issue_text" form:"issue_text"`
	CreatedBy  *string `json:"created_by" form:"created_by"`
	AssignedTo *string `json:"assigned_to" form:"assigned_to"`
	StatusText *string `json:"status_text" form:"status_text"`
	Open       *bool   `json:"open" form:"-"`
	OpenForm   *string `json:"-" form:"open"`
}

func (r updateIssueReq) patch() (domain.Patch, error) {
	open := r.Open
	if open == nil && r.OpenForm != nil {
		switch *r.OpenForm {
		case "":
		case "true":
			open = boolPtr(true)
		case "false":
			open = boolPtr(false)
		default:
			return domain.Patch{}, fmt.Errorf("open: %q is not a boolean", *r.OpenForm)
		}
	}

	return domain.Patch{
		IssueTitle: r.IssueTitle,
		IssueText:  r.IssueText,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		StatusText: r.StatusText,
		Open:       open,
	}, nil
}

func boolPtr(b bool) *bool { return &b }

type deleteIssueReq struct {
	ID string `json:"_id" form:"_id"`
}
