package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donezo_backend/internal/jobs/transport"
	"donezo_backend/platform/httpkit"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// AdminListJobs handles GET /api/v1/admin/jobs with optional status and
// search filters.
func (h *Handler) AdminListJobs(c *gin.Context) {
	var req transport.AdminListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	if req.Limit <= 0 || req.Limit > maxListLimit {
		req.Limit = defaultListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	jobs, total, err := h.service.AdminList(c.Request.Context(), req.Status, req.Search, req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.JobListResponse{
		Jobs:  transport.ToJobResponses(jobs),
		Total: total,
	})
}

// AdminGetJob handles GET /api/v1/admin/jobs/:id.
func (h *Handler) AdminGetJob(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToJobResponse(job))
}

// AdminSetStatus handles PATCH /api/v1/admin/jobs/:id/status. The override
// accepts any status in the vocabulary regardless of the current one.
func (h *Handler) AdminSetStatus(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req transport.AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if err := h.service.AdminSetStatus(c.Request.Context(), jobID, req.Status, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"jobId": jobID, "status": req.Status})
}
