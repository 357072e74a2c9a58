package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	"github.com/noah-isme/campus-complaint-api/internal/service"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
	"github.com/noah-isme/campus-complaint-api/pkg/response"
)

// ComplaintHandler wires HTTP endpoints to complaint services.
type ComplaintHandler struct {
	complaints *service.ComplaintService
	lifecycle  *service.LifecycleService
	responses  *service.ResponseService
	exports    *service.ExportService
}

// NewComplaintHandler creates a new handler.
func NewComplaintHandler(complaints *service.ComplaintService, lifecycle *service.LifecycleService, responses *service.ResponseService, exports *service.ExportService) *ComplaintHandler {
	return &ComplaintHandler{
		complaints: complaints,
		lifecycle:  lifecycle,
		responses:  responses,
		exports:    exports,
	}
}

func complaintIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid complaint id")
	}
	return id, nil
}

func filterFromQuery(c *gin.Context) models.ComplaintFilter {
	return models.ComplaintFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
}

// Create godoc
// @Summary Submit complaint
// @Description Submit a new complaint for the authenticated student
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body service.CreateComplaintRequest true "Complaint payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}

	complaint, err := h.complaints.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, complaint)
}

// Mine godoc
// @Summary List own complaints
// @Description List complaints submitted by the authenticated user
// @Tags Complaints
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /complaints/mine [get]
func (h *ComplaintHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	complaints, err := h.complaints.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, complaints, map[string]interface{}{"total": len(complaints)})
}

// Search godoc
// @Summary Search complaints
// @Description Search and filter all complaints
// @Tags Complaints
// @Produce json
// @Param search query string false "Free-text search over name, body and roll number"
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param priority query string false "Priority filter"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complaints [get]
func (h *ComplaintHandler) Search(c *gin.Context) {
	complaints, err := h.complaints.Search(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, complaints, map[string]interface{}{"total": len(complaints)})
}

// authorizeView loads a complaint and enforces that students only see their
// own submissions. Staff see everything.
func (h *ComplaintHandler) authorizeView(c *gin.Context, id int64) (*models.ComplaintDetail, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}

	detail, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if claims.Role != models.RoleTeacher && detail.UserID != claims.UserID {
		response.Error(c, appErrors.ErrForbidden)
		return nil, false
	}
	return detail, true
}

// Get godoc
// @Summary Get complaint
// @Description Fetch a single complaint with submitter details
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, ok := h.authorizeView(c, id)
	if !ok {
		return
	}

	response.JSON(c, http.StatusOK, detail)
}

// SetStatus godoc
// @Summary Update complaint status
// @Description Transition a complaint to a new status and record the change
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param payload body object true "New status"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /complaints/{id}/status [patch]
func (h *ComplaintHandler) SetStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var payload struct {
		Status models.ComplaintStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	if err := h.lifecycle.SetStatus(c.Request.Context(), id, payload.Status, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// History godoc
// @Summary Complaint status history
// @Description List status transitions for a complaint in chronological order
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complaints/{id}/history [get]
func (h *ComplaintHandler) History(c *gin.Context) {
	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims := claimsFromContext(c); claims == nil || claims.Role != models.RoleTeacher {
		if _, ok := h.authorizeView(c, id); !ok {
			return
		}
	}

	history, err := h.lifecycle.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history)
}

// AddResponse godoc
// @Summary Respond to complaint
// @Description Record a teacher response on a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param payload body service.AddResponseRequest true "Response payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /complaints/{id}/responses [post]
func (h *ComplaintHandler) AddResponse(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	entry, err := h.responses.Add(c.Request.Context(), id, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// ListResponses godoc
// @Summary List complaint responses
// @Description List responses recorded on a complaint in chronological order
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complaints/{id}/responses [get]
func (h *ComplaintHandler) ListResponses(c *gin.Context) {
	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims := claimsFromContext(c); claims == nil || claims.Role != models.RoleTeacher {
		if _, ok := h.authorizeView(c, id); !ok {
			return
		}
	}

	entries, err := h.responses.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries)
}

// Delete godoc
// @Summary Delete complaint
// @Description Remove a complaint together with its responses and history
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *gin.Context) {
	id, err := complaintIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.complaints.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export complaints as CSV
// @Description Render the filtered complaint list as a CSV download
// @Tags Complaints
// @Produce text/csv
// @Param search query string false "Free-text search"
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param priority query string false "Priority filter"
// @Success 200 {string} string "CSV payload"
// @Failure 403 {object} response.Envelope
// @Router /complaints/export [get]
func (h *ComplaintHandler) ExportCSV(c *gin.Context) {
	filename, payload, err := h.exports.RenderCSV(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}
