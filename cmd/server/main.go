package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"naebak/internal/db"
	"naebak/internal/handlers"
	"naebak/internal/middleware"
	"naebak/internal/models"
	"naebak/internal/services"
	"naebak/internal/storage"
	"naebak/internal/utils"
	"naebak/internal/workflow"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env vars")
	}

	db.Init()

	r := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("naebak_session", store))

	r.HTMLRender = loadTemplates("./web/templates")
	r.Static("/static", "./web/static")

	r.Use(middleware.LoadUser())

	// Wiring: the workflow service owns every complaint mutation.
	mail := services.NewMailService()
	notifier := services.NewNotifyService(mail)
	svc := workflow.NewService(storage.NewService(db.DB), notifier, utils.GetCache())

	authHandler := handlers.NewAuthHandler(mail)
	complaintHandler := handlers.NewComplaintHandler(svc)
	voteHandler := handlers.NewVoteHandler(svc)
	deputyHandler := handlers.NewDeputyHandler(svc)
	managerHandler := handlers.NewManagerHandler(svc)
	adminHandler := handlers.NewAdminHandler(svc)
	notificationHandler := handlers.NewNotificationHandler()
	userHandler := handlers.NewUserHandler()

	// Public routes
	r.GET("/", complaintHandler.ListPublic)
	r.GET("/complaints", complaintHandler.ListPublic)
	r.GET("/c/:ref", complaintHandler.Detail)
	r.GET("/deputies", deputyHandler.List)
	r.GET("/d/:id", deputyHandler.Profile)
	r.GET("/news", complaintHandler.NewsBar)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Logged-in routes. Anonymous visitors can still vote, keyed by IP.
	r.POST("/c/:ref/vote/:kind", voteHandler.Toggle)

	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/submit", complaintHandler.ShowCreate)
		authorized.POST("/submit", complaintHandler.Create)
		authorized.POST("/d/:id/rate", deputyHandler.Rate)

		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.GET("/notifications", notificationHandler.List)
	}

	// Citizen dashboard
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired())
	{
		dashboard.GET("", userHandler.Dashboard)
		dashboard.POST("/c/:ref/publish", userHandler.RequestPublic)
		dashboard.GET("/settings", userHandler.ShowSettings)
		dashboard.POST("/settings", userHandler.UpdateSettings)
	}

	// Deputy workspace
	deputy := r.Group("/deputy")
	deputy.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDeputy, models.RoleManager, models.RoleAdmin))
	{
		deputy.GET("", deputyHandler.Dashboard)
		deputy.POST("/c/:ref/status", deputyHandler.UpdateStatus)
		deputy.POST("/c/:ref/priority", deputyHandler.UpdatePriority)
	}

	// Manager workspace
	manager := r.Group("/manager")
	manager.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleManager, models.RoleAdmin))
	{
		manager.GET("", managerHandler.Dashboard)
		manager.POST("/c/:ref/assign", managerHandler.Assign)
		manager.POST("/c/:ref/close", managerHandler.Close)
		manager.POST("/c/:ref/archive", managerHandler.Archive)
	}

	// Admin area
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("", adminHandler.Dashboard)
		admin.POST("/c/:ref/approve", adminHandler.ApprovePublic)
		admin.POST("/c/:ref/force", adminHandler.ForcePublic)
		admin.POST("/users/:id/role", adminHandler.SetRole)
		admin.POST("/users/:id/permissions", adminHandler.SetManagerPermissions)
		admin.GET("/news", adminHandler.ListNews)
		admin.POST("/news", adminHandler.CreateNews)
		admin.POST("/news/:id/toggle", adminHandler.ToggleNews)
		admin.DELETE("/news/:id", adminHandler.DeleteNews)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Naebak server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}
	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int { return a + b },
		"timeAgo": func(t interface{}) string {
			timeVal, ok := t.(time.Time)
			if !ok {
				return ""
			}
			seconds := int(time.Since(timeVal).Seconds())
			switch {
			case seconds < 60:
				return "منذ لحظات"
			case seconds < 3600:
				return fmt.Sprintf("منذ %d دقيقة", seconds/60)
			case seconds < 86400:
				return fmt.Sprintf("منذ %d ساعة", seconds/3600)
			case seconds < 2592000:
				return fmt.Sprintf("منذ %d يوم", seconds/86400)
			case seconds < 31536000:
				return fmt.Sprintf("منذ %d شهر", seconds/2592000)
			}
			return fmt.Sprintf("منذ %d سنة", seconds/31536000)
		},
		"statusLabel": func(s models.ComplaintStatus) string {
			return workflow.StatusLabel(s)
		},
		"deputyRank": func(points int) string {
			name, icon := utils.GetDeputyRank(points)
			return icon + " " + name
		},
		"starBar":  utils.StarBar,
		"markdown": utils.RenderMarkdown,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	views := []string{
		"auth/login.html",
		"auth/register.html",
		"complaint/list.html",
		"complaint/detail.html",
		"complaint/create.html",
		"deputy/list.html",
		"deputy/profile.html",
		"deputy/dashboard.html",
		"manager/dashboard.html",
		"admin/dashboard.html",
		"admin/news.html",
		"dashboard/overview.html",
		"dashboard/settings.html",
		"notification/list.html",
		"error.html",
	}
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(templatesDir+"/views/"+view)...)
	}

	// HTMX partials render without the layout.
	r.AddFromFilesFuncs("components/news_bar.html", funcMap, templatesDir+"/views/components/news_bar.html")

	return r
}
