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

type AdminHandler struct {
	svc *workflow.Service
}

func NewAdminHandler(svc *workflow.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Dashboard shows pending publish requests and platform totals.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var pending []models.Complaint
	db.DB.Preload("Citizen").
		Where("citizen_requested_public = ? AND admin_approved_public = ? AND archived = ?", true, false, false).
		Order("created_at ASC").
		Find(&pending)

	var totals struct {
		Complaints int64
		Users      int64
		Deputies   int64
	}
	db.DB.Model(&models.Complaint{}).Count(&totals.Complaints)
	db.DB.Model(&models.User{}).Count(&totals.Users)
	db.DB.Model(&models.DeputyProfile{}).Count(&totals.Deputies)

	Render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Title":   "لوحة المشرف",
		"Pending": pending,
		"Totals":  totals,
		"Active":  "admin-dashboard",
	})
}

// ApprovePublic acts on a citizen's publish request.
func (h *AdminHandler) ApprovePublic(c *gin.Context) {
	ref := c.Param("ref")
	approved := c.PostForm("approved") != "0"

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.svc.ApproveForPublic(complaint.ID, approved, actor)
	if err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	if result.EffectivePublic {
		c.String(http.StatusOK, "تم النشر")
		return
	}
	c.String(http.StatusOK, "غير منشورة")
}

// ForcePublic is the consent-bypassing override; the response carries the
// warning whenever the citizen never opted in.
func (h *AdminHandler) ForcePublic(c *gin.Context) {
	ref := c.Param("ref")
	makePublic := c.PostForm("public") != "0"

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.svc.ForcePublic(complaint.ID, makePublic, actor)
	if err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	if result.ConsentMissing {
		c.String(http.StatusOK, "⚠️ تم النشر دون موافقة المواطن")
		return
	}
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// SetRole changes a user's role and creates the dependent rows (deputy
// profile, manager permissions) on first promotion.
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))
	role := models.Role(c.PostForm("role"))
	if !role.Valid() {
		c.String(http.StatusBadRequest, "الدور غير صحيح")
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	switch role {
	case models.RoleDeputy:
		var count int64
		db.DB.Model(&models.DeputyProfile{}).Where("user_id = ?", userID).Count(&count)
		if count == 0 {
			db.DB.Create(&models.DeputyProfile{UserID: userID, Council: models.CouncilRepresentatives})
		}
	case models.RoleManager:
		var count int64
		db.DB.Model(&models.ManagerPermission{}).Where("user_id = ?", userID).Count(&count)
		if count == 0 {
			db.DB.Create(&models.ManagerPermission{UserID: userID})
		}
	}

	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// SetManagerPermissions updates the per-manager workflow flags.
func (h *AdminHandler) SetManagerPermissions(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	updates := map[string]interface{}{
		"can_assign":  c.PostForm("can_assign") == "on",
		"can_close":   c.PostForm("can_close") == "on",
		"can_publish": c.PostForm("can_publish") == "on",
		"can_archive": c.PostForm("can_archive") == "on",
	}
	if err := db.DB.Model(&models.ManagerPermission{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// News bar management.

func (h *AdminHandler) ListNews(c *gin.Context) {
	var items []models.NewsItem
	db.DB.Order("ordering ASC, created_at DESC").Find(&items)
	Render(c, http.StatusOK, "admin/news.html", gin.H{
		"Title": "شريط الأخبار",
		"Items": items,
	})
}

func (h *AdminHandler) CreateNews(c *gin.Context) {
	content := c.PostForm("content")
	if content == "" {
		c.String(http.StatusBadRequest, "نص الخبر مطلوب")
		return
	}
	item := models.NewsItem{
		Content:  content,
		Ordering: utils.StringToInt(c.PostForm("ordering")),
	}
	if err := db.DB.Create(&item).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	utils.GetCache().Invalidate("/news")
	c.Redirect(http.StatusFound, "/admin/news")
}

func (h *AdminHandler) ToggleNews(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	var item models.NewsItem
	if err := db.DB.First(&item, id).Error; err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	db.DB.Model(&item).Update("active", !item.Active)
	utils.GetCache().Invalidate("/news")
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

func (h *AdminHandler) DeleteNews(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	db.DB.Delete(&models.NewsItem{}, id)
	utils.GetCache().Invalidate("/news")
	c.Status(http.StatusOK)
}
