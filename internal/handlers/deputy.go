package handlers

import (
	"net/http"
	"time"

	"naebak/internal/db"
	"naebak/internal/middleware"
	"naebak/internal/models"
	"naebak/internal/services"
	"naebak/internal/utils"
	"naebak/internal/workflow"

	"github.com/gin-gonic/gin"
)

type DeputyHandler struct {
	svc *workflow.Service
}

func NewDeputyHandler(svc *workflow.Service) *DeputyHandler {
	return &DeputyHandler{svc: svc}
}

// List renders the deputy directory with governorate/council/party filters.
func (h *DeputyHandler) List(c *gin.Context) {
	cacheKey := c.Request.URL.RequestURI()
	cache := utils.GetCache()

	var deputies []models.DeputyProfile
	if cached := cache.Get(cacheKey); cached != nil {
		deputies = cached.([]models.DeputyProfile)
	} else {
		query := db.DB.Preload("User")
		if gov := c.Query("governorate"); gov != "" {
			query = query.Where("governorate = ?", gov)
		}
		if council := models.Council(c.Query("council")); council.Valid() {
			query = query.Where("council = ?", council)
		}
		if party := c.Query("party"); party != "" {
			query = query.Where("party = ?", party)
		}
		if err := query.Order("points DESC").Find(&deputies).Error; err != nil {
			RenderError(c, http.StatusInternalServerError, "تعذر تحميل قائمة النواب")
			return
		}
		cache.Set(cacheKey, deputies, 5*time.Minute)
	}

	var governorates []models.Governorate
	db.DB.Order("name").Find(&governorates)

	Render(c, http.StatusOK, "deputy/list.html", gin.H{
		"Title":        "النواب",
		"Deputies":     deputies,
		"Governorates": governorates,
		"Active":       "deputies",
	})
}

// Profile shows one deputy with rating aggregates and rank.
func (h *DeputyHandler) Profile(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var profile models.DeputyProfile
	if err := db.DB.Preload("User").First(&profile, id).Error; err != nil {
		RenderError(c, http.StatusNotFound, "النائب غير موجود")
		return
	}

	rankName, rankIcon := utils.GetDeputyRank(profile.Points)

	var myRating models.DeputyRating
	actor := middleware.GetActor(c)
	if actor.Authenticated() {
		db.DB.Where("user_id = ? AND deputy_id = ?", actor.UserID, profile.ID).First(&myRating)
	}

	Render(c, http.StatusOK, "deputy/profile.html", gin.H{
		"Title":     profile.User.Name,
		"Profile":   &profile,
		"Bio":       utils.RenderMarkdown(profile.Bio),
		"RankName":  rankName,
		"RankIcon":  rankIcon,
		"Stars":     utils.StarBar(profile.AvgRating()),
		"MyRating":  myRating.Score,
		"AvgRating": profile.AvgRating(),
	})
}

// Rate records the logged-in citizen's star rating of a deputy.
func (h *DeputyHandler) Rate(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	deputyID := utils.StringToUint(c.Param("id"))
	score := utils.StringToInt(c.PostForm("score"))

	if err := services.RateDeputy(user.ID, deputyID, score); err != nil {
		c.String(http.StatusBadRequest, "التقييم يجب أن يكون من 1 إلى 5")
		return
	}
	utils.GetCache().InvalidatePrefix("/deputies")
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// Dashboard is the deputy's work queue: complaints assigned to them, ordered
// by priority.
func (h *DeputyHandler) Dashboard(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var complaints []models.Complaint
	db.DB.Preload("Citizen").
		Where("assigned_deputy_id = ? AND archived = ?", user.ID, false).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, created_at ASC").
		Find(&complaints)

	var profile models.DeputyProfile
	db.DB.Where("user_id = ?", user.ID).First(&profile)

	Render(c, http.StatusOK, "deputy/dashboard.html", gin.H{
		"Title":      "لوحة النائب",
		"Complaints": complaints,
		"Profile":    &profile,
		"Active":     "deputy-dashboard",
	})
}

// UpdateStatus is the deputy/staff action behind the status buttons.
func (h *DeputyHandler) UpdateStatus(c *gin.Context) {
	ref := c.Param("ref")
	newStatus := models.ComplaintStatus(c.PostForm("status"))
	comment := c.PostForm("comment")

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	result, err := h.svc.UpdateStatus(complaint.ID, newStatus, actor, comment)
	if err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}

	c.String(http.StatusOK, workflow.StatusLabel(result.Complaint.Status))
}

// UpdatePriority is the deputy/staff action behind the priority selector.
func (h *DeputyHandler) UpdatePriority(c *gin.Context) {
	ref := c.Param("ref")
	newPriority := models.ComplaintPriority(c.PostForm("priority"))

	var complaint models.Complaint
	if err := db.DB.Where("ref = ?", ref).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	if _, err := h.svc.UpdatePriority(complaint.ID, newPriority, actor); err != nil {
		c.String(statusCodeFor(err), workflow.UserMessage(err))
		return
	}
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// statusCodeFor maps workflow error kinds to HTTP statuses.
func statusCodeFor(err error) int {
	switch workflow.KindOf(err) {
	case workflow.KindValidation, workflow.KindPrecondition:
		return http.StatusBadRequest
	case workflow.KindForbidden:
		return http.StatusForbidden
	case workflow.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
