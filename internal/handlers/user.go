package handlers

import (
	"net/http"

	"naebak/internal/db"
	"naebak/internal/middleware"
	"naebak/internal/models"
	"naebak/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Dashboard lists the citizen's own complaints regardless of visibility.
func (h *UserHandler) Dashboard(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var complaints []models.Complaint
	db.DB.Preload("AssignedDeputy").
		Where("citizen_id = ?", user.ID).
		Order("created_at DESC").
		Find(&complaints)

	var stats struct {
		Total    int64
		Resolved int64
		Open     int64
	}
	db.DB.Model(&models.Complaint{}).Where("citizen_id = ?", user.ID).Count(&stats.Total)
	db.DB.Model(&models.Complaint{}).
		Where("citizen_id = ? AND status IN ?", user.ID, []models.ComplaintStatus{models.StatusResolved, models.StatusClosed}).
		Count(&stats.Resolved)
	stats.Open = stats.Total - stats.Resolved

	Render(c, http.StatusOK, "dashboard/overview.html", gin.H{
		"Title":      "شكاواي",
		"User":       user,
		"Complaints": complaints,
		"Stats":      stats,
		"Active":     "dashboard",
	})
}

// RequestPublic records the citizen's consent to publish their complaint.
// Admin approval is still needed before it shows on the public board.
func (h *UserHandler) RequestPublic(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	ref := c.Param("ref")
	requested := c.PostForm("requested") != "0"

	var complaint models.Complaint
	if err := db.DB.Where("ref = ? AND citizen_id = ?", ref, user.ID).First(&complaint).Error; err != nil {
		c.String(http.StatusNotFound, "الشكوى غير موجودة")
		return
	}

	updates := map[string]interface{}{"citizen_requested_public": requested}
	if !requested {
		// withdrawing consent also withdraws any standing approval
		updates["admin_approved_public"] = false
	}
	if err := db.DB.Model(&complaint).Updates(updates).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	utils.GetCache().InvalidatePrefix("/complaints")
	if requested {
		c.String(http.StatusOK, "تم إرسال طلب النشر للمراجعة")
		return
	}
	c.String(http.StatusOK, "تم سحب طلب النشر")
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var governorates []models.Governorate
	db.DB.Order("name ASC").Find(&governorates)

	Render(c, http.StatusOK, "dashboard/settings.html", gin.H{
		"Title":        "الإعدادات",
		"User":         user,
		"Governorates": governorates,
	})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	name := c.PostForm("name")
	phone := c.PostForm("phone")
	governorate := c.PostForm("governorate")
	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	updates := make(map[string]interface{})
	if name != "" && name != user.Name {
		updates["name"] = name
	}
	if phone != user.Phone {
		updates["phone"] = phone
	}
	if governorate != "" && governorate != user.Governorate {
		updates["governorate"] = governorate
	}

	if oldPassword != "" && newPassword != "" {
		if !utils.CheckPassword(oldPassword, user.Password) {
			Render(c, http.StatusBadRequest, "dashboard/settings.html", gin.H{
				"Error": "كلمة المرور الحالية غير صحيحة",
				"User":  user,
			})
			return
		}
		if len(newPassword) < 6 {
			Render(c, http.StatusBadRequest, "dashboard/settings.html", gin.H{
				"Error": "كلمة المرور الجديدة يجب ألا تقل عن 6 أحرف",
				"User":  user,
			})
			return
		}
		hash, err := utils.HashPassword(newPassword)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "حدث خطأ، حاول مرة أخرى")
			return
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := db.DB.Model(user).Updates(updates).Error; err != nil {
			RenderError(c, http.StatusInternalServerError, "تعذر حفظ التغييرات")
			return
		}
	}

	c.Redirect(http.StatusFound, "/dashboard/settings?success=1")
}
