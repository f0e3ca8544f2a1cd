package router

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/handler"
	"gorm.io/gorm"
)

const (
	sessionName      = "globalaid_session"
	defaultUploadURL = "/uploads"
)

// Options 汇总路由所需的运行参数
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURLPath string
	HomeSlug      string
	// CORSOrigins 为空时公开 JSON 接口允许任意来源
	CORSOrigins []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	r := gin.Default()

	uploadURLPath := normalizeURLPath(opts.UploadURLPath)
	uploadDir := opts.UploadDir
	api := handler.NewAPI(gdb, uploadDir, uploadURLPath)
	api.SetHomeSlug(opts.HomeSlug)

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions(sessionName, store))

	r.SetHTMLTemplate(api.Renderer().Templates())

	// 上传文件服务
	r.Static(uploadURLPath, uploadDir)
	if uploadURLPath != defaultUploadURL {
		r.Static(defaultUploadURL, uploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 前台页面
	r.GET("/", api.ShowHome)
	r.GET("/pages/:slug", api.ShowPage)
	public := r.Group("/api")
	public.Use(cors.New(publicCORSConfig(opts.CORSOrigins)))
	{
		public.GET("/pages/:slug", api.GetRenderedPage)
		// 预检请求由 cors 中间件直接应答
		public.OPTIONS("/pages/:slug", func(c *gin.Context) {})
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/schema", api.GetSchema)

			auth.GET("/statistics", api.ListStatistics)
			auth.POST("/statistics", api.CreateStatistic)
			auth.GET("/statistics/:id", api.GetStatistic)
			auth.PUT("/statistics/:id", api.UpdateStatistic)
			auth.DELETE("/statistics/:id", api.DeleteStatistic)

			auth.GET("/news", api.ListNews)
			auth.POST("/news", api.CreateNews)
			auth.GET("/news/:id", api.GetNews)
			auth.PUT("/news/:id", api.UpdateNews)
			auth.DELETE("/news/:id", api.DeleteNews)

			auth.GET("/testimonials", api.ListTestimonials)
			auth.POST("/testimonials", api.CreateTestimonial)
			auth.GET("/testimonials/:id", api.GetTestimonial)
			auth.PUT("/testimonials/:id", api.UpdateTestimonial)
			auth.DELETE("/testimonials/:id", api.DeleteTestimonial)

			auth.GET("/images", api.ListImages)
			auth.POST("/images", api.UploadImage)
			auth.GET("/images/:id", api.GetImage)
			auth.DELETE("/images/:id", api.DeleteImage)

			auth.GET("/pages", api.ListPages)
			auth.POST("/pages", api.CreatePage)
			auth.GET("/pages/:id", api.GetPage)
			auth.PUT("/pages/:id", api.UpdatePage)
			auth.DELETE("/pages/:id", api.DeletePage)
			auth.POST("/pages/:id/blocks", api.AppendPageBlock)
		}
	}

	return r
}

func normalizeURLPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return defaultUploadURL
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	if trimmed == "/" {
		return defaultUploadURL
	}
	return trimmed
}

// publicCORSConfig 只开放只读访问；不合法的来源会被忽略
func publicCORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch {
		case origin == "*":
			cfg.AllowAllOrigins = true
			return cfg
		case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			allowed = append(allowed, origin)
		default:
			log.Printf("[router] ignoring invalid CORS origin %q", origin)
		}
	}

	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	return cfg
}
