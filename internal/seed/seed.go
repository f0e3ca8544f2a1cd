package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"github.com/globalaidnetwork/internal/service"
	"gorm.io/gorm"
)

// ErrAlreadySeeded is returned when the fixture's content already exists.
var ErrAlreadySeeded = errors.New("seed: content already present")

const imageRefPrefix = "image:"

// Result counts what a run created.
type Result struct {
	Images       int
	Statistics   int
	News         int
	Testimonials int
	PageID       uint
}

// Seeder writes fixtures through the regular services so every record is
// validated the same way the admin API validates it.
type Seeder struct {
	db        *gorm.DB
	files     fs.FS
	uploadDir string
	uploadURL string
}

// New creates a Seeder. files resolves ImageFixture.File paths and may be nil
// when every image is a placeholder.
func New(gdb *gorm.DB, files fs.FS, uploadDir, uploadURL string) *Seeder {
	return &Seeder{db: gdb, files: files, uploadDir: uploadDir, uploadURL: uploadURL}
}

// seedRun holds the services of one run, bound to its transaction.
type seedRun struct {
	files        fs.FS
	images       *service.ImageService
	statistics   *service.StatisticService
	news         *service.NewsService
	testimonials *service.TestimonialService
	pages        *service.HomePageService
	written      []string
}

// Run creates everything in fixture inside one transaction. Nothing is kept
// when any record fails, and a fixture that was already loaded is refused.
func (s *Seeder) Run(fixture *Fixture) (Result, error) {
	if fixture == nil {
		return Result{}, errors.New("seed: fixture is nil")
	}

	var (
		result Result
		run    *seedRun
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		run = &seedRun{
			files:        s.files,
			images:       service.NewImageService(tx, s.uploadDir, s.uploadURL),
			statistics:   service.NewStatisticService(tx),
			news:         service.NewNewsService(tx),
			testimonials: service.NewTestimonialService(tx),
			pages:        service.NewHomePageService(tx),
		}
		if err := ensureFresh(tx, run.pages, fixture); err != nil {
			return err
		}

		var err error
		result, err = run.apply(fixture)
		return err
	})
	if err != nil {
		if run != nil {
			run.removeWritten(s.uploadDir)
		}
		return Result{}, err
	}

	log.Printf("[seed] created %d images, %d statistics, %d news, %d testimonials",
		result.Images, result.Statistics, result.News, result.Testimonials)
	return result, nil
}

// ensureFresh refuses a fixture whose page slug is taken. Fixtures without a
// page are refused once any snippet exists.
func ensureFresh(tx *gorm.DB, pages *service.HomePageService, fixture *Fixture) error {
	if fixture.HomePage != nil {
		slug := strings.TrimSpace(fixture.HomePage.Slug)
		if slug == "" {
			slug = service.DefaultHomePageSlug
		}
		if _, err := pages.GetBySlug(slug); err == nil {
			return ErrAlreadySeeded
		} else if !errors.Is(err, service.ErrHomePageNotFound) {
			return err
		}
		return nil
	}

	for _, model := range []any{&db.Statistic{}, &db.News{}, &db.Testimonial{}} {
		var count int64
		if err := tx.Model(model).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySeeded
		}
	}
	return nil
}

func (s *seedRun) apply(fixture *Fixture) (Result, error) {
	var result Result

	imageIDs := make(map[string]uint, len(fixture.Images))
	for _, img := range fixture.Images {
		created, err := s.createImage(img)
		if err != nil {
			return result, fmt.Errorf("seed: image %s: %w", img.Key, err)
		}
		s.written = append(s.written, created.FileName)
		imageIDs[strings.TrimSpace(img.Key)] = created.ID
		result.Images++
	}

	for _, item := range fixture.Statistics {
		if _, err := s.statistics.Create(service.StatisticInput{
			IconName: item.IconName,
			Value:    item.Value,
			Label:    item.Label,
		}); err != nil {
			return result, fmt.Errorf("seed: statistic %s: %w", item.Label, err)
		}
		result.Statistics++
	}

	for _, item := range fixture.News {
		imageID, err := lookupImage(imageIDs, item.Image)
		if err != nil {
			return result, fmt.Errorf("seed: news %s: %w", item.Title, err)
		}
		if _, err := s.news.Create(service.NewsInput{
			Title:   item.Title,
			Date:    item.Date,
			ImageID: imageID,
			Excerpt: item.Excerpt,
			LinkURL: item.LinkURL,
		}); err != nil {
			return result, fmt.Errorf("seed: news %s: %w", item.Title, err)
		}
		result.News++
	}

	for _, item := range fixture.Testimonials {
		imageID, err := lookupImage(imageIDs, item.Image)
		if err != nil {
			return result, fmt.Errorf("seed: testimonial %s: %w", item.Name, err)
		}
		if _, err := s.testimonials.Create(service.TestimonialInput{
			Quote:   item.Quote,
			Name:    item.Name,
			Role:    item.Role,
			ImageID: imageID,
		}); err != nil {
			return result, fmt.Errorf("seed: testimonial %s: %w", item.Name, err)
		}
		result.Testimonials++
	}

	if fixture.HomePage != nil {
		page, err := s.createPage(fixture.HomePage, imageIDs)
		if err != nil {
			return result, err
		}
		result.PageID = page.ID
	}
	return result, nil
}

// removeWritten deletes the upload files of a rolled back run.
func (s *seedRun) removeWritten(uploadDir string) {
	for _, name := range s.written {
		if err := os.Remove(filepath.Join(uploadDir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("[seed] failed to remove %s: %v", name, err)
		}
	}
}

func (s *seedRun) createPage(fixture *HomePageFixture, imageIDs map[string]uint) (*db.HomePage, error) {
	body := make(content.Stream, 0, len(fixture.Body))
	for i, block := range fixture.Body {
		value, err := resolveImageRefs(block.Value, imageIDs)
		if err != nil {
			return nil, fmt.Errorf("seed: block %d: %w", i, err)
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("seed: block %d: %w", i, err)
		}
		child, err := content.NewChild(strings.TrimSpace(block.Type), raw)
		if err != nil {
			return nil, fmt.Errorf("seed: block %d: %w", i, err)
		}
		body = append(body, child)
	}

	page, err := s.pages.Create(service.HomePageInput{
		Title: fixture.Title,
		Slug:  fixture.Slug,
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("seed: home page: %w", err)
	}
	return page, nil
}

func (s *seedRun) createImage(img ImageFixture) (*db.Image, error) {
	if file := strings.TrimSpace(img.File); file != "" {
		if s.files == nil {
			return nil, fmt.Errorf("no file system to read %s from", file)
		}
		data, err := fs.ReadFile(s.files, file)
		if err != nil {
			return nil, err
		}
		return s.images.Create(service.ImageUpload{
			Title:    img.Title,
			FileName: path.Base(file),
			Reader:   bytes.NewReader(data),
		})
	}

	data, err := placeholderPNG(img)
	if err != nil {
		return nil, err
	}
	return s.images.Create(service.ImageUpload{
		Title:    img.Title,
		FileName: img.Key + ".png",
		Reader:   bytes.NewReader(data),
	})
}

func lookupImage(imageIDs map[string]uint, key string) (*uint, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	id, ok := imageIDs[key]
	if !ok {
		return nil, fmt.Errorf("unknown image key %q", key)
	}
	return &id, nil
}

// resolveImageRefs swaps "image:<key>" strings for image ids and YAML
// timestamps for plain dates.
func resolveImageRefs(value map[string]any, imageIDs map[string]uint) (map[string]any, error) {
	resolved := make(map[string]any, len(value))
	for name, field := range value {
		switch v := field.(type) {
		case string:
			if key, ok := strings.CutPrefix(v, imageRefPrefix); ok {
				id, err := lookupImage(imageIDs, key)
				if err != nil {
					return nil, err
				}
				resolved[name] = id
				continue
			}
			resolved[name] = v
		case time.Time:
			resolved[name] = v.Format("2006-01-02")
		default:
			resolved[name] = v
		}
	}
	return resolved, nil
}

func placeholderPNG(img ImageFixture) ([]byte, error) {
	width, height := img.Width, img.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}

	fill, err := parseHexColor(img.Color)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			canvas.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseHexColor(raw string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if hex == "" {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}, nil
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", raw)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", raw)
	}
	return color.RGBA{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value), A: 0xff}, nil
}
