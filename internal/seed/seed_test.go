package seed

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/service"
	"github.com/google/go-cmp/cmp"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return gdb
}

func TestDefaultFixtureSeedsHomePage(t *testing.T) {
	gdb := setupSeedTestDB(t)

	fixture, err := DefaultFixture()
	if err != nil {
		t.Fatalf("failed to parse default fixture: %v", err)
	}

	result, err := New(gdb, nil, t.TempDir(), "/uploads").Run(fixture)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	want := Result{Images: 3, Statistics: 4, News: 2, Testimonials: 1, PageID: result.PageID}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	pages := service.NewHomePageService(gdb)
	page, err := pages.GetBySlug("home")
	if err != nil {
		t.Fatalf("failed to load seeded page: %v", err)
	}
	body, err := pages.Body(page)
	if err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	wantTypes := []string{"hero", "statistic", "statistic", "news", "testimonial", "cta"}
	if diff := cmp.Diff(wantTypes, body.Types()); diff != "" {
		t.Fatalf("unexpected block order (-want +got):\n%s", diff)
	}

	stat := body[1].Value.(*content.Statistic)
	if stat.Value+":"+stat.Label != "500:Volunteers" {
		t.Fatalf("unexpected statistic block %+v", stat)
	}
	hero := body[0].Value.(*content.Hero)
	if hero.BackgroundImage == nil || *hero.BackgroundImage == 0 {
		t.Fatal("expected hero image to resolve to an id")
	}

	var testimonial db.Testimonial
	if err := gdb.Where("name = ?", "Jane Doe").First(&testimonial).Error; err != nil {
		t.Fatalf("failed to load testimonial: %v", err)
	}
	if testimonial.ImageID == nil {
		t.Fatal("expected testimonial image to be linked")
	}
}

func TestRunRefusesSecondSeed(t *testing.T) {
	gdb := setupSeedTestDB(t)
	seeder := New(gdb, nil, t.TempDir(), "/uploads")

	fixture, err := DefaultFixture()
	if err != nil {
		t.Fatalf("failed to parse default fixture: %v", err)
	}
	if _, err := seeder.Run(fixture); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if _, err := seeder.Run(fixture); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}
}

func TestRunFailureLeavesNoRows(t *testing.T) {
	gdb := setupSeedTestDB(t)
	uploadDir := t.TempDir()
	seeder := New(gdb, nil, uploadDir, "/uploads")

	fixture, err := ParseFixture([]byte(`
images:
  - key: banner
    width: 4
    height: 3
statistics:
  - icon_name: users
    value: "500"
    label: Volunteers
home_page:
  title: Broken
  body:
    - type: cta
      value:
        text: Join
        url: not-a-url
`))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	for attempt := 1; attempt <= 2; attempt++ {
		_, err := seeder.Run(fixture)
		var verr *content.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("attempt %d: expected validation error, got %v", attempt, err)
		}
	}

	for _, model := range []any{&db.Image{}, &db.Statistic{}, &db.HomePage{}} {
		var count int64
		if err := gdb.Unscoped().Model(model).Count(&count).Error; err != nil {
			t.Fatalf("failed to count %T: %v", model, err)
		}
		if count != 0 {
			t.Fatalf("expected no %T rows after failed runs, got %d", model, count)
		}
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected uploaded files to be removed, found %d", len(entries))
	}
}

func TestRunRefusesSnippetOnlyFixtureTwice(t *testing.T) {
	gdb := setupSeedTestDB(t)
	seeder := New(gdb, nil, t.TempDir(), "/uploads")

	fixture, err := ParseFixture([]byte(`
statistics:
  - icon_name: heart
    value: "12"
    label: Partners
`))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	if _, err := seeder.Run(fixture); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if _, err := seeder.Run(fixture); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}

	var count int64
	if err := gdb.Model(&db.Statistic{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count statistics: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 statistic, got %d", count)
	}
}

func TestRunReadsImageFiles(t *testing.T) {
	gdb := setupSeedTestDB(t)

	png, err := placeholderPNG(ImageFixture{Width: 3, Height: 2})
	if err != nil {
		t.Fatalf("failed to build png: %v", err)
	}
	files := fstest.MapFS{"assets/logo.png": {Data: png}}

	fixture, err := ParseFixture([]byte(`
images:
  - key: logo
    file: assets/logo.png
testimonials:
  - quote: Quick and kind.
    name: Sam
    image: logo
`))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	result, err := New(gdb, files, t.TempDir(), "/uploads").Run(fixture)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if result.Images != 1 || result.Testimonials != 1 || result.PageID != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	var img db.Image
	if err := gdb.First(&img).Error; err != nil {
		t.Fatalf("failed to load image: %v", err)
	}
	if img.Title != "logo" || img.Width != 3 || img.Height != 2 {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestRunRejectsUnknownImageKey(t *testing.T) {
	gdb := setupSeedTestDB(t)

	fixture, err := ParseFixture([]byte(`
home_page:
  title: Broken
  body:
    - type: news
      value:
        title: Relief Drive
        date: 2024-05-01
        image: image:missing
        excerpt: Trucks left at dawn.
`))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	if _, err := New(gdb, nil, t.TempDir(), "/uploads").Run(fixture); err == nil {
		t.Fatal("expected unknown image key to fail")
	}
}

func TestParseFixtureRejectsDuplicateKeys(t *testing.T) {
	_, err := ParseFixture([]byte(`
images:
  - key: a
  - key: a
`))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestResolveImageRefsFormatsDates(t *testing.T) {
	value := map[string]any{
		"date":  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"image": "image:convoy",
		"title": "Relief Drive",
	}

	got, err := resolveImageRefs(value, map[string]uint{"convoy": 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := uint(7)
	want := map[string]any{"date": "2024-05-01", "image": &id, "title": "Relief Drive"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestParseHexColor(t *testing.T) {
	got, err := parseHexColor("#c0392b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.R != 0xc0 || got.G != 0x39 || got.B != 0x2b || got.A != 0xff {
		t.Fatalf("unexpected color %+v", got)
	}
	if _, err := parseHexColor("red"); err == nil {
		t.Fatal("expected invalid color error")
	}
}
