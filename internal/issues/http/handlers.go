package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Validation failures are reported with status 200 and an "error" field.
// Only backend failures use a 5xx status.

// ListIssues returns the issues of a project matching the query filters
func (h *Handler) ListIssues(c *gin.Context) {
	project := c.Param("project")
	filter := domain.ParseFilter(c.Request.URL.Query())

	issues, err := h.svc.List(c.Request.Context(), project, filter)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// CreateIssue creates a new issue in the project
func (h *Handler) CreateIssue(c *gin.Context) {
	project := c.Param("project")

	var body createIssueReq
	if err := bindBody(c, &body); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": domain.ErrInvalidBody.Error()})
		return
	}

	issue, err := h.svc.Create(c.Request.Context(), project, body.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrRequiredFieldsMissing) {
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateIssue patches the issue named by _id
func (h *Handler) UpdateIssue(c *gin.Context) {
	project := c.Param("project")

	var body updateIssueReq
	if err := bindBody(c, &body); err != nil {
		c.JSON(http.StatusOK, domain.Result{Error: domain.ErrInvalidBody.Error()})
		return
	}
	patch, err := body.patch()
	if err != nil {
		c.JSON(http.StatusOK, domain.Result{Error: domain.ErrInvalidBody.Error()})
		return
	}

	_, err = h.svc.Update(c.Request.Context(), project, body.ID, patch)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, domain.Result{Result: domain.MsgSuccessfullyUpdated, ID: body.ID})
	case errors.Is(err, domain.ErrMissingID):
		c.JSON(http.StatusOK, domain.Result{Error: err.Error()})
	case errors.Is(err, domain.ErrNoUpdateFields):
		c.JSON(http.StatusOK, domain.Result{Error: err.Error(), ID: body.ID})
	case errors.Is(err, domain.ErrIssueNotFound):
		c.JSON(http.StatusOK, domain.Result{Error: domain.MsgCouldNotUpdate, ID: body.ID})
	default:
		internalError(c)
	}
}

// DeleteIssue removes the issue named by _id
func (h *Handler) DeleteIssue(c *gin.Context) {
	project := c.Param("project")

	var body deleteIssueReq
	if err := bindDeleteBody(c, &body); err != nil {
		c.JSON(http.StatusOK, domain.Result{Error: domain.ErrInvalidBody.Error()})
		return
	}
	if body.ID == "" {
		body.ID = c.Query("_id")
	}

	err := h.svc.Delete(c.Request.Context(), project, body.ID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, domain.Result{Result: domain.MsgSuccessfullyDeleted, ID: body.ID})
	case errors.Is(err, domain.ErrMissingID):
		c.JSON(http.StatusOK, domain.Result{Error: err.Error()})
	case errors.Is(err, domain.ErrIssueNotFound):
		c.JSON(http.StatusOK, domain.Result{Error: domain.MsgCouldNotDelete, ID: body.ID})
	default:
		internalError(c)
	}
}

// ListProjects returns every known project with its issue count
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.svc.Projects(c.Request.Context())
	if err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// bindBody decodes a JSON or form body. An empty body is not an error.
func bindBody(c *gin.Context, obj any) error {
	err := c.ShouldBind(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// bindDeleteBody reads form bodies by hand because net/http only parses
// them for POST, PUT and PATCH.
func bindDeleteBody(c *gin.Context, body *deleteIssueReq) error {
	if c.ContentType() != binding.MIMEPOSTForm {
		return bindBody(c, body)
	}

	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return err
	}
	body.ID = values.Get("_id")
	return nil
}
