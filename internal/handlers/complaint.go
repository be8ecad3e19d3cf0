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
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const complaintPageSize = 20

type ComplaintHandler struct {
	svc *workflow.Service
}

func NewComplaintHandler(svc *workflow.Service) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

// ListPublic renders the public complaints board: effectively-public,
// non-archived complaints with their vote counters.
func (h *ComplaintHandler) ListPublic(c *gin.Context) {
	cacheKey := c.Request.URL.RequestURI()
	cache := utils.GetCache()

	var complaints []models.Complaint
	if cached := cache.Get(cacheKey); cached != nil {
		complaints = cached.([]models.Complaint)
	} else {
		query := db.DB.Preload("AssignedDeputy").
			Where("archived = ?", false).
			Where("admin_forced_public = ? OR (citizen_requested_public = ? AND admin_approved_public = ?)", true, true, true)

		if gov := c.Query("governorate"); gov != "" {
			query = query.Where("governorate = ?", gov)
		}
		if cat := models.ComplaintCategory(c.Query("category")); cat.Valid() {
			query = query.Where("category = ?", cat)
		}
		if status := models.ComplaintStatus(c.Query("status")); status.Valid() {
			query = query.Where("status = ?", status)
		}

		page := utils.StringToInt(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		if err := query.Order("upvotes - downvotes DESC, created_at DESC").
			Limit(complaintPageSize).
			Offset((page - 1) * complaintPageSize).
			Find(&complaints).Error; err != nil {
			RenderError(c, http.StatusInternalServerError, "تعذر تحميل الشكاوى")
			return
		}
		cache.Set(cacheKey, complaints, 2*time.Minute)
	}

	var governorates []models.Governorate
	db.DB.Order("name").Find(&governorates)

	Render(c, http.StatusOK, "complaint/list.html", gin.H{
		"Title":        "الشكاوى العامة",
		"Complaints":   complaints,
		"Governorates": governorates,
		"Active":       "complaints",
	})
}

// Detail shows a complaint with its audit timeline. Private complaints are
// only visible to their citizen, the assigned deputy, and staff.
func (h *ComplaintHandler) Detail(c *gin.Context) {
	ref := c.Param("ref")

	var complaint models.Complaint
	if err := db.DB.Preload("Citizen").Preload("AssignedDeputy").
		Where("ref = ?", ref).First(&complaint).Error; err != nil {
		RenderError(c, http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	actor := middleware.GetActor(c)
	if !complaint.IsPublic() || complaint.Archived {
		allowed := actor.IsStaff() ||
			(actor.Authenticated() && actor.UserID == complaint.CitizenID) ||
			(complaint.AssignedDeputyID != nil && actor.UserID == *complaint.AssignedDeputyID)
		if !allowed {
			RenderError(c, http.StatusNotFound, "الشكوى غير موجودة")
			return
		}
	}

	var actions []models.ComplaintAction
	db.DB.Where("complaint_id = ?", complaint.ID).Order("created_at ASC").Find(&actions)

	var attachments []models.Attachment
	db.DB.Where("complaint_id = ?", complaint.ID).Find(&attachments)

	voterKey := actor.Key()
	var hasUpvoted, hasDownvoted int64
	db.DB.Model(&models.ComplaintVote{}).
		Where("complaint_id = ? AND voter_key = ? AND kind = ?", complaint.ID, voterKey, models.VoteUp).
		Count(&hasUpvoted)
	db.DB.Model(&models.ComplaintVote{}).
		Where("complaint_id = ? AND voter_key = ? AND kind = ?", complaint.ID, voterKey, models.VoteDown).
		Count(&hasDownvoted)

	Render(c, http.StatusOK, "complaint/detail.html", gin.H{
		"Title":        complaint.Title,
		"Complaint":    &complaint,
		"StatusLabel":  workflow.StatusLabel(complaint.Status),
		"Body":         utils.RenderMarkdown(complaint.Description),
		"Actions":      actions,
		"Attachments":  attachments,
		"HasUpvoted":   hasUpvoted > 0,
		"HasDownvoted": hasDownvoted > 0,
		"IsPublic":     complaint.IsPublic(),
	})
}

func (h *ComplaintHandler) ShowCreate(c *gin.Context) {
	var governorates []models.Governorate
	db.DB.Order("name").Find(&governorates)
	Render(c, http.StatusOK, "complaint/create.html", gin.H{
		"Title":        "تقديم شكوى",
		"Governorates": governorates,
	})
}

// Create files a new complaint for the logged-in citizen, uploading any
// attachments to object storage.
func (h *ComplaintHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := c.PostForm("title")
	description := c.PostForm("description")
	category := models.ComplaintCategory(c.PostForm("category"))
	governorate := c.PostForm("governorate")
	requestedPublic := c.PostForm("public") == "on"

	if title == "" || description == "" {
		h.createError(c, "العنوان ووصف الشكوى مطلوبان")
		return
	}
	if !category.Valid() {
		h.createError(c, "تصنيف الشكوى غير صحيح")
		return
	}

	complaint := models.Complaint{
		Ref:                    uuid.NewString(),
		CitizenID:              user.ID,
		Title:                  title,
		Description:            utils.SanitizeHTML(description),
		Category:               category,
		Governorate:            governorate,
		Status:                 models.StatusNew,
		Priority:               models.PriorityMedium,
		CitizenRequestedPublic: requestedPublic,
	}
	if err := db.DB.Create(&complaint).Error; err != nil {
		h.createError(c, "تعذر حفظ الشكوى، يرجى المحاولة لاحقاً")
		return
	}

	// Attachments are best-effort: the complaint stands even if an upload
	// fails, and the form reports which file was dropped.
	form, _ := c.MultipartForm()
	if form != nil {
		for _, header := range form.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				continue
			}
			result, err := services.UploadAttachment(file, header)
			file.Close()
			if err != nil {
				logrus.WithError(err).WithField("complaint", complaint.Ref).Warn("attachment upload failed")
				continue
			}
			db.DB.Create(&models.Attachment{
				ComplaintID: complaint.ID,
				Path:        result.Path,
				URL:         result.URL,
				ContentType: result.ContentType,
				Size:        result.Size,
			})
		}
	}

	utils.GetCache().InvalidatePrefix("/dashboard")
	c.Redirect(http.StatusFound, "/c/"+complaint.Ref)
}

// NewsBar is the ticker partial shown on every page.
func (h *ComplaintHandler) NewsBar(c *gin.Context) {
	cache := utils.GetCache()

	var items []models.NewsItem
	if cached := cache.Get("/news"); cached != nil {
		items = cached.([]models.NewsItem)
	} else {
		db.DB.Where("active = ?", true).
			Order("ordering ASC, created_at DESC").
			Limit(20).
			Find(&items)
		cache.Set("/news", items, 5*time.Minute)
	}

	Render(c, http.StatusOK, "components/news_bar.html", gin.H{
		"Items": items,
	})
}

func (h *ComplaintHandler) createError(c *gin.Context, message string) {
	var governorates []models.Governorate
	db.DB.Order("name").Find(&governorates)
	Render(c, http.StatusBadRequest, "complaint/create.html", gin.H{
		"Title":        "تقديم شكوى",
		"Error":        message,
		"Governorates": governorates,
	})
}
