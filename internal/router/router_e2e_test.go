package router_test

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
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/router"
	"github.com/globalaidnetwork/internal/seed"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler   http.Handler
	public    httpClient
	admin     httpClient
	baseURL   string
	uploadDir string
	username  string
	password  string
	pageID    uint
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("public endpoints", suite.testPublicEndpoints)
	t.Run("admin requires login", suite.testAdminRequiresLogin)
	suite.login(t)
	t.Run("snippet apis", suite.testSnippetAPIs)
	t.Run("page apis", suite.testPageAPIs)
	t.Run("image deletion keeps pages renderable", suite.testImageDeletion)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := db.EnsureUser(gdb, "admin", "e2e-secret"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	uploadDir := t.TempDir()
	fixture, err := seed.DefaultFixture()
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	result, err := seed.New(gdb, nil, uploadDir, "/uploads").Run(fixture)
	if err != nil {
		t.Fatalf("failed to seed content: %v", err)
	}

	engine := router.SetupRouter(gdb, router.Options{
		SessionSecret: "test-session-secret",
		UploadDir:     uploadDir,
		UploadURLPath: "/uploads",
		HomeSlug:      "home",
	})

	return &e2eSuite{
		handler:   engine,
		public:    newLocalClient(engine, false),
		admin:     newLocalClient(engine, true),
		baseURL:   "http://example.test",
		uploadDir: uploadDir,
		username:  "admin",
		password:  "e2e-secret",
		pageID:    result.PageID,
	}
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()
	form := url.Values{
		"username": {s.username},
		"password": {s.password},
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/admin/login", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to create login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.admin.Do(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed, status %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testPublicEndpoints(t *testing.T) {
	checkHTML := func(name, path, expect string, code int) {
		t.Helper()
		resp := s.mustRequest(t, s.public, http.MethodGet, path, nil, nil)
		defer resp.Body.Close()
		if resp.StatusCode != code {
			t.Fatalf("%s: expected status %d, got %d", name, code, resp.StatusCode)
		}
		body := readBody(t, resp)
		if expect != "" && !strings.Contains(body, expect) {
			t.Fatalf("%s: response does not contain %q", name, expect)
		}
	}

	checkHTML("home", "/", "Help arrives faster together", http.StatusOK)
	checkHTML("home statistic", "/", "Volunteers", http.StatusOK)
	checkHTML("home testimonial", "/", "Jane Doe", http.StatusOK)
	checkHTML("page by slug", "/pages/home", "Relief Drive", http.StatusOK)
	checkHTML("missing page", "/pages/nope", "Page not found", http.StatusNotFound)
	checkHTML("ping", "/ping", "pong", http.StatusOK)

	resp := s.mustRequest(t, s.public, http.MethodGet, "/api/pages/home", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rendered page expected 200, got %d", resp.StatusCode)
	}
	var rendered struct {
		Title  string `json:"title"`
		Blocks []struct {
			Type     string `json:"type"`
			Template string `json:"template"`
		} `json:"blocks"`
	}
	decodeJSON(t, resp, &rendered)
	if rendered.Title != "Global Aid Network" || len(rendered.Blocks) != 6 {
		t.Fatalf("unexpected rendered page: %+v", rendered)
	}
	if rendered.Blocks[5].Type != "cta" || rendered.Blocks[5].Template != "blocks/cta_button_block.html" {
		t.Fatalf("unexpected cta block: %+v", rendered.Blocks[5])
	}
}

func (s *e2eSuite) testAdminRequiresLogin(t *testing.T) {
	for _, path := range []string{"/admin/api/schema", "/admin/api/statistics", "/admin/api/pages"} {
		resp := s.mustRequest(t, s.public, http.MethodGet, path, nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func (s *e2eSuite) testSnippetAPIs(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/statistics", nil, nil)
	var stats struct {
		Items []db.Statistic `json:"items"`
	}
	decodeJSON(t, resp, &stats)
	resp.Body.Close()
	if len(stats.Items) != 4 || stats.Items[0].String() != "Volunteers:500" {
		t.Fatalf("unexpected statistics: %+v", stats.Items)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/statistics", map[string]interface{}{
		"icon_name": "trending_up",
		"value":     "24h",
		"label":     "Average response",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create statistic expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	resp.Body.Close()

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/news", nil, nil)
	var news struct {
		Items []struct {
			Title string
		} `json:"items"`
	}
	decodeJSON(t, resp, &news)
	resp.Body.Close()
	if len(news.Items) != 2 || news.Items[0].Title != "Relief Drive" {
		t.Fatalf("expected newest news first, got %+v", news.Items)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/schema", nil, nil)
	body := readBody(t, resp)
	resp.Body.Close()
	for _, want := range []string{`"Hero Section"`, `"blocks/news_block.html"`, `"testimonials"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("schema missing %s", want)
		}
	}
}

func (s *e2eSuite) testPageAPIs(t *testing.T) {
	resp := s.uploadTestImage(t)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload image expected 201, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var upload struct {
		Item db.Image `json:"item"`
	}
	decodeJSON(t, resp, &upload)
	resp.Body.Close()
	if upload.Item.ID == 0 || !strings.HasPrefix(upload.Item.URL, "/uploads/") {
		t.Fatalf("unexpected upload response: %+v", upload.Item)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, upload.Item.URL, nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("uploaded file expected 200, got %d", resp.StatusCode)
	}

	path := "/admin/api/pages/" + idStr(s.pageID) + "/blocks"
	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, path, map[string]interface{}{
		"type": "news",
		"value": map[string]interface{}{
			"title":   "Winter kits delivered",
			"date":    "2024-12-02",
			"image":   upload.Item.ID,
			"excerpt": "Two thousand families received winter kits.",
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("append block expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	resp.Body.Close()

	resp = s.mustRequest(t, s.public, http.MethodGet, "/", nil, nil)
	body := readBody(t, resp)
	resp.Body.Close()
	if !strings.Contains(body, "Winter kits delivered") || !strings.Contains(body, upload.Item.URL) {
		t.Fatal("home page should render the appended news block with its image")
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/pages", map[string]interface{}{
		"title": "Duplicate",
		"slug":  "home",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate slug expected 409, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testImageDeletion(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/images?per_page=100", nil, nil)
	var images struct {
		Items []db.Image `json:"items"`
	}
	decodeJSON(t, resp, &images)
	resp.Body.Close()

	for _, img := range images.Items {
		resp := s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/images/"+idStr(img.ID), nil, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete image %d expected 200, got %d", img.ID, resp.StatusCode)
		}
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/testimonials", nil, nil)
	var testimonials struct {
		Items []db.Testimonial `json:"items"`
	}
	decodeJSON(t, resp, &testimonials)
	resp.Body.Close()
	if len(testimonials.Items) != 1 || testimonials.Items[0].ImageID != nil {
		t.Fatalf("expected testimonial to survive with image cleared: %+v", testimonials.Items)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, "/", nil, nil)
	body := readBody(t, resp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home expected 200 after image deletion, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "<img") {
		t.Fatal("deleted images should not be rendered")
	}
}

func (s *e2eSuite) uploadTestImage(t *testing.T) *http.Response {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "image", "winter-kits.png"))
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/images", body, headers)
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
