package handlers

import (
	"net/http"
	"strings"

	"naebak/internal/db"
	"naebak/internal/models"
	"naebak/internal/services"
	"naebak/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService    *services.MailService
	captchaService *services.CaptchaService
}

func NewAuthHandler(mail *services.MailService) *AuthHandler {
	return &AuthHandler{
		mailService:    mail,
		captchaService: services.NewCaptchaService(),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Captcha": question})
}

func (h *AuthHandler) registerError(c *gin.Context, code int, message string) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, code, "auth/register.html", gin.H{"Error": message, "Captcha": question})
}

func (h *AuthHandler) Register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	governorate := c.PostForm("governorate")
	captchaInput := c.PostForm("captcha")

	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(captchaInput) != expectedAnswer {
		h.registerError(c, http.StatusBadRequest, "إجابة سؤال التحقق غير صحيحة")
		return
	}
	session.Delete("captcha_answer")
	session.Save()

	if name == "" {
		h.registerError(c, http.StatusBadRequest, "الاسم مطلوب")
		return
	}
	if !strings.Contains(email, "@") {
		h.registerError(c, http.StatusBadRequest, "البريد الإلكتروني غير صحيح")
		return
	}
	if len(password) < 8 {
		h.registerError(c, http.StatusBadRequest, "كلمة المرور يجب ألا تقل عن 8 أحرف")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		h.registerError(c, http.StatusInternalServerError, "حدث خطأ، يرجى المحاولة لاحقاً")
		return
	}

	user := models.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		Governorate: governorate,
		Role:        models.RoleCitizen,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		h.registerError(c, http.StatusConflict, "البريد الإلكتروني مسجل بالفعل")
		return
	}

	if h.mailService != nil {
		h.mailService.SendWelcomeEmail(email, name)
	}

	session.Set("user_id", user.ID)
	session.Save()
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "البريد الإلكتروني أو كلمة المرور غير صحيحة"})
		return
	}
	if !utils.CheckPassword(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "البريد الإلكتروني أو كلمة المرور غير صحيحة"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	switch user.Role {
	case models.RoleDeputy:
		c.Redirect(http.StatusFound, "/deputy")
	case models.RoleManager:
		c.Redirect(http.StatusFound, "/manager")
	case models.RoleAdmin:
		c.Redirect(http.StatusFound, "/admin")
	default:
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
