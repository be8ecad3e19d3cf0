package handlers

import (
	"net/http"

	"naebak/internal/db"
	"naebak/internal/middleware"
	"naebak/internal/models"
	"naebak/internal/utils"
	"naebak/internal/workflow"

	"github.com/gin-gonic/gin"
)

type ManagerHandler struct {
	svc *workflow.Service
}

func NewManagerHandler(svc *workflow.Service) *ManagerHandler {
	return &ManagerHandler{svc: svc}
}

// Dashboard lists active complaints with assignment controls.
func (h *ManagerHandler) Dashboard(c *gin.Context) {
	query := db.DB.Preload("Citizen").Preload("AssignedDeputy").
		Where("archived = ?", false)

	if status := models.ComplaintStatus(c.Query("status")); status.Valid() {
		query = query.Where("status = ?", status)
	}
	if c.Query("unassigned") == "1" {
		query = query.Where("assigned_deputy_id IS NULL")
	}

	var complaints []models.Complaint
	query.Order("created_at DESC").Limit(100).Find(&complaints)

	var deputies []models.DeputyProfile
	db.DB.Preload("User").Order("governorate").Find(&deputies)

	Render(c, http.StatusOK, "manager/dashboard.html", gin.H{
		"Title":      "لوحة الإدارة",
		"Complaints": complaints,
		"Deputies":   deputies,
		"Active":     "manager-dashboard",
	})
}

// Assign hands a complaint to a deputy.
func (h *ManagerHandler) Assign(c *gin.Context) {
	ref := c.Param("ref")
	deputyUserID := utils.StringToUint(c.PostForm("deputy_id"))

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	if _, err := h.svc.Assign(complaint.ID, deputyUserID, actor); err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// Close finalizes a resolved complaint and rewards the deputy. A partial
// success (closed but not credited) is surfaced, not hidden.
func (h *ManagerHandler) Close(c *gin.Context) {
	ref := c.Param("ref")

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.svc.Close(complaint.ID, actor)
	if err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	if result.Warning != "" {
		c.String(http.StatusOK, result.Warning)
		return
	}
	c.String(http.StatusOK, "تم إغلاق الشكوى ومنح النائب نقاط المكافأة")
}

// Archive soft-deletes a complaint out of the active views.
func (h *ManagerHandler) Archive(c *gin.Context) {
	ref := c.Param("ref")
	archived := c.PostForm("archived") != "0"

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	if _, err := h.svc.Archive(complaint.ID, archived, actor); err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}
