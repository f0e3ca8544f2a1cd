package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHomePageNotFound  = errors.New("home page not found")
	ErrHomePageSlugTaken = errors.New("home page slug is already in use")
)

// DefaultHomePageSlug is used when a page is saved without a slug.
const DefaultHomePageSlug = "home"

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// HomePageInput represents fields accepted when creating or updating a home page.
type HomePageInput struct {
	Title string         `json:"title" validate:"required,max=255"`
	Slug  string         `json:"slug" validate:"max=255"`
	Body  content.Stream `json:"body" validate:"-"`
}

// HomePageService stores home pages and their block streams.
type HomePageService struct {
	db *gorm.DB
}

// NewHomePageService returns a new HomePageService instance.
func NewHomePageService(gdb *gorm.DB) *HomePageService {
	return &HomePageService{db: gdb}
}

// List returns all home pages.
func (s *HomePageService) List() ([]db.HomePage, error) {
	var pages []db.HomePage
	if err := s.db.Order("id asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Get fetches a page by id.
func (s *HomePageService) Get(id uint) (*db.HomePage, error) {
	var page db.HomePage
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomePageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// GetBySlug fetches a page for a given slug.
func (s *HomePageService) GetBySlug(slug string) (*db.HomePage, error) {
	var page db.HomePage
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomePageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Body decodes the stored block stream of page.
func (s *HomePageService) Body(page *db.HomePage) (content.Stream, error) {
	return content.ParseStream(page.Body)
}

// Create validates input and inserts a page. Nothing is stored when any
// field or block is invalid.
func (s *HomePageService) Create(input HomePageInput) (*db.HomePage, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	body, err := encodeBody(input.Body)
	if err != nil {
		return nil, err
	}

	page := db.HomePage{Title: input.Title, Slug: input.Slug, Body: body}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugAvailable(tx, input.Slug, 0); err != nil {
			return err
		}
		return tx.Create(&page).Error
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Update replaces title, slug and body of an existing page.
func (s *HomePageService) Update(id uint, input HomePageInput) (*db.HomePage, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	body, err := encodeBody(input.Body)
	if err != nil {
		return nil, err
	}

	var page db.HomePage
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&page, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHomePageNotFound
			}
			return err
		}
		if err := ensureSlugAvailable(tx, input.Slug, id); err != nil {
			return err
		}

		page.Title = input.Title
		page.Slug = input.Slug
		page.Body = body
		return tx.Save(&page).Error
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveBody replaces only the block stream of a page.
func (s *HomePageService) SaveBody(id uint, body content.Stream) (*db.HomePage, error) {
	var page *db.HomePage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockPage(tx, id)
		if err != nil {
			return err
		}
		page, err = s.withDB(tx).saveBody(locked, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// AppendBlock decodes raw as a tag block and adds it to the end of the body.
// The read and the write share one transaction so concurrent appends keep
// every block.
func (s *HomePageService) AppendBlock(id uint, tag string, raw json.RawMessage) (*db.HomePage, content.StreamChild, error) {
	child, err := content.NewChild(strings.TrimSpace(tag), raw)
	if err != nil {
		return nil, content.StreamChild{}, err
	}

	var page *db.HomePage
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockPage(tx, id)
		if err != nil {
			return err
		}

		txs := s.withDB(tx)
		body, err := txs.Body(locked)
		if err != nil {
			return err
		}
		body = append(body, child)

		page, err = txs.saveBody(locked, body)
		return err
	})
	if err != nil {
		return nil, content.StreamChild{}, err
	}

	body, err := s.Body(page)
	if err != nil {
		return nil, content.StreamChild{}, err
	}
	return page, body[len(body)-1], nil
}

func (s *HomePageService) withDB(gdb *gorm.DB) *HomePageService {
	return &HomePageService{db: gdb}
}

func (s *HomePageService) saveBody(page *db.HomePage, body content.Stream) (*db.HomePage, error) {
	if err := s.validateBody(body); err != nil {
		return nil, err
	}
	encoded, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(page).Update("body", encoded).Error; err != nil {
		return nil, err
	}
	page.Body = encoded
	return page, nil
}

// lockPage loads a page for update. sqlite ignores the row lock and
// serialises writers on the database instead.
func lockPage(tx *gorm.DB, id uint) (*db.HomePage, error) {
	var page db.HomePage
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHomePageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Delete removes a page and its body.
func (s *HomePageService) Delete(id uint) error {
	page, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Unscoped().Delete(page).Error
}

func (s *HomePageService) validate(input *HomePageInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = DefaultHomePageSlug
	}

	verr := &content.ValidationError{}
	if err := mergeValidation(verr, content.ValidateStruct(*input)); err != nil {
		return err
	}
	if _, exists := verr.Fields["slug"]; !exists && !slugPattern.MatchString(input.Slug) {
		verr.AddField("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if err := mergeValidation(verr, s.validateBody(input.Body)); err != nil {
		return err
	}
	return verr.Err()
}

// validateBody checks every block and that each referenced image exists.
func (s *HomePageService) validateBody(body content.Stream) error {
	verr := &content.ValidationError{}
	if err := mergeValidation(verr, body.Validate()); err != nil {
		return err
	}

	missing, err := missingImageIDs(s.db, body.ImageIDs())
	if err != nil {
		return err
	}
	for i, child := range body {
		if child.Value == nil {
			continue
		}
		for _, ref := range child.Value.ImageRefs() {
			if missing[ref.ID] {
				verr.AddBlock(i, ref.Field, invalidImageMessage)
			}
		}
	}
	return verr.Err()
}

// mergeValidation folds a *content.ValidationError into dst and hands back
// any other error unchanged.
func mergeValidation(dst *content.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var verr *content.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for name, message := range verr.Fields {
		dst.AddField(name, message)
	}
	for index, fields := range verr.Blocks {
		for name, message := range fields {
			dst.AddBlock(index, name, message)
		}
	}
	return nil
}

func ensureSlugAvailable(tx *gorm.DB, slug string, excludeID uint) error {
	query := tx.Unscoped().Model(&db.HomePage{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrHomePageSlugTaken
	}
	return nil
}

func encodeBody(body content.Stream) (datatypes.JSON, error) {
	body.EnsureIDs()
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
