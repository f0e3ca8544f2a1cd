package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewAPI(gdb, t.TempDir(), "/uploads")
}

// newTestRouter wires handlers without the auth middleware.
func newTestRouter(api *API) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.SetHTMLTemplate(api.Renderer().Templates())

	r.GET("/", api.ShowHome)
	r.GET("/pages/:slug", api.ShowPage)
	r.GET("/api/pages/:slug", api.GetRenderedPage)

	r.POST("/admin/login", api.Login)
	r.POST("/admin/logout", api.Logout)
	r.GET("/admin/api/schema", AuthRequired(), api.GetSchema)

	r.POST("/statistics", api.CreateStatistic)
	r.GET("/statistics/:id", api.GetStatistic)
	r.PUT("/statistics/:id", api.UpdateStatistic)
	r.POST("/news", api.CreateNews)
	r.GET("/news", api.ListNews)
	r.POST("/testimonials", api.CreateTestimonial)
	r.DELETE("/testimonials/:id", api.DeleteTestimonial)

	r.GET("/images", api.ListImages)
	r.POST("/images", api.UploadImage)
	r.DELETE("/images/:id", api.DeleteImage)

	r.POST("/pages", api.CreatePage)
	r.GET("/pages-admin/:id", api.GetPage)
	r.PUT("/pages-admin/:id", api.UpdatePage)
	r.POST("/pages-admin/:id/blocks", api.AppendPageBlock)
	r.DELETE("/pages-admin/:id", api.DeletePage)
	return r
}

func performJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func pngUpload(t *testing.T, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(1, 1, color.RGBA{G: 180, A: 255})
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(encoded.Bytes()); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func uploadTestImage(t *testing.T, r http.Handler, fileName string) uint {
	t.Helper()

	body, contentType := pngUpload(t, fileName)
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected upload status 201, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Item db.Image `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	return payload.Item.ID
}
