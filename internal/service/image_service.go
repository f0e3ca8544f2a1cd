package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/globalaidnetwork/internal/db"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrImageInvalid  = errors.New("file is not a supported image")
	ErrImageTooLarge = errors.New("image exceeds the upload size limit")
)

// MaxImageBytes caps a single upload.
const MaxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// ImageService stores uploaded images and manages their weak references.
type ImageService struct {
	db        *gorm.DB
	uploadDir string
	uploadURL string
	now       func() time.Time
}

// ImageUpload is an incoming image file.
type ImageUpload struct {
	Title    string
	FileName string
	Reader   io.Reader
}

// ImageListResult aggregates paginated images.
type ImageListResult = ListResult[db.Image]

// NewImageService creates an ImageService writing files below uploadDir and
// publishing them under uploadURL.
func NewImageService(gdb *gorm.DB, uploadDir, uploadURL string) *ImageService {
	return &ImageService{
		db:        gdb,
		uploadDir: uploadDir,
		uploadURL: strings.TrimRight(uploadURL, "/"),
		now:       time.Now,
	}
}

// List returns images, newest first.
func (s *ImageService) List(page, perPage int) (ImageListResult, error) {
	result := ImageListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 24),
	}

	query := s.db.Model(&db.Image{})
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches an image by id.
func (s *ImageService) Get(id uint) (*db.Image, error) {
	var item db.Image
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Resolve loads the images for ids. Ids without an image are absent from the map.
func (s *ImageService) Resolve(ids []uint) (map[uint]*db.Image, error) {
	resolved := make(map[uint]*db.Image, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	var items []db.Image
	if err := s.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		resolved[items[i].ID] = &items[i]
	}
	return resolved, nil
}

// Create stores the upload on disk and records it.
func (s *ImageService) Create(upload ImageUpload) (*db.Image, error) {
	if upload.Reader == nil {
		return nil, ErrImageInvalid
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrImageInvalid
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return nil, ErrImageInvalid
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.NewString(), ext)
	filePath := filepath.Join(s.uploadDir, fileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return nil, err
	}

	item := db.Image{
		Title:    imageTitle(upload.Title, upload.FileName, fileName),
		FileName: fileName,
		URL:      s.uploadURL + "/" + fileName,
		Width:    cfg.Width,
		Height:   cfg.Height,
		FileSize: int64(len(data)),
	}
	if err := s.db.Create(&item).Error; err != nil {
		os.Remove(filePath)
		return nil, err
	}

	log.Printf("[image] stored %s (%dx%d, %d bytes)", fileName, item.Width, item.Height, item.FileSize)
	return &item, nil
}

// Delete removes an image. News and testimonials that pointed at it keep
// existing with their image cleared.
func (s *ImageService) Delete(id uint) error {
	var item db.Image
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}
			return err
		}

		if err := tx.Unscoped().Model(&db.News{}).
			Where("image_id = ?", id).
			Update("image_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Model(&db.Testimonial{}).
			Where("image_id = ?", id).
			Update("image_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&item).Error
	})
	if err != nil {
		return err
	}

	if item.FileName != "" {
		if err := os.Remove(filepath.Join(s.uploadDir, item.FileName)); err != nil && !os.IsNotExist(err) {
			log.Printf("[image] failed to remove %s: %v", item.FileName, err)
		}
	}
	return nil
}

func imageTitle(title, originalName, storedName string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		base := filepath.Base(strings.TrimSpace(originalName))
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" || title == "." {
		title = storedName
	}
	if utf8.RuneCountInString(title) > 255 {
		title = string([]rune(title)[:255])
	}
	return title
}
