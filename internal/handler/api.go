package handler

import (
	"strings"

	"github.com/globalaidnetwork/internal/service"
	"github.com/globalaidnetwork/internal/view"
	"github.com/globalaidnetwork/web"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	auth         *service.AuthService
	images       *service.ImageService
	statistics   *service.StatisticService
	news         *service.NewsService
	testimonials *service.TestimonialService
	pages        *service.HomePageService
	renderer     *view.Renderer
	uploadDir    string
	uploadURL    string
	homeSlug     string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:           db,
		auth:         service.NewAuthService(db),
		images:       service.NewImageService(db, uploadDir, uploadURL),
		statistics:   service.NewStatisticService(db),
		news:         service.NewNewsService(db),
		testimonials: service.NewTestimonialService(db),
		pages:        service.NewHomePageService(db),
		renderer:     view.MustNewRenderer(web.Files),
		uploadDir:    uploadDir,
		uploadURL:    uploadURL,
		homeSlug:     service.DefaultHomePageSlug,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Renderer returns the template renderer shared with the router.
func (a *API) Renderer() *view.Renderer {
	return a.renderer
}

// SetHomeSlug chooses which page GET / renders.
func (a *API) SetHomeSlug(slug string) {
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		a.homeSlug = trimmed
	}
}
