package http

import "github.com/gin-gonic/gin"

// Register registers the issue routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/issues/:project", h.ListIssues)
	rg.POST("/issues/:project", h.CreateIssue)
	rg.PUT("/issues/:project", h.UpdateIssue)
	rg.DELETE("/issues/:project", h.DeleteIssue)

	rg.GET("/projects", h.ListProjects)
}
