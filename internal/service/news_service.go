package service

import (
	"errors"
	"strings"
	"time"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNewsNotFound = errors.New("news not found")

const dateLayout = "2006-01-02"

// NewsInput represents fields accepted when creating or updating a news item.
type NewsInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	ImageID *uint  `json:"image" validate:"omitempty,gt=0"`
	Excerpt string `json:"excerpt" validate:"required"`
	LinkURL string `json:"link_url" validate:"omitempty,max=200,weburl"`
}

func (in *NewsInput) clean() {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.LinkURL = strings.TrimSpace(in.LinkURL)
}

// NewsService handles news snippet CRUD.
type NewsService struct {
	db *gorm.DB
}

// NewNewsService creates a NewsService instance.
func NewNewsService(gdb *gorm.DB) *NewsService {
	return &NewsService{db: gdb}
}

// List returns news items, most recent date first.
func (s *NewsService) List() ([]db.News, error) {
	var items []db.News
	if err := s.db.Preload("Image").Order("date desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a news item by id.
func (s *NewsService) Get(id uint) (*db.News, error) {
	var item db.News
	if err := s.db.Preload("Image").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new news item.
func (s *NewsService) Create(input NewsInput) (*db.News, error) {
	date, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	item := db.News{
		Title:   input.Title,
		Date:    datatypes.Date(date),
		ImageID: input.ImageID,
		Excerpt: input.Excerpt,
		LinkURL: input.LinkURL,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return s.Get(item.ID)
}

// Update modifies an existing news item.
func (s *NewsService) Update(id uint, input NewsInput) (*db.News, error) {
	date, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Date = datatypes.Date(date)
	item.ImageID = input.ImageID
	item.Image = nil
	item.Excerpt = input.Excerpt
	item.LinkURL = input.LinkURL

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes a news item.
func (s *NewsService) Delete(id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(item).Error
}

func (s *NewsService) validate(input *NewsInput) (time.Time, error) {
	input.clean()
	if err := content.ValidateStruct(*input); err != nil {
		return time.Time{}, err
	}

	if input.ImageID != nil {
		missing, err := missingImageIDs(s.db, []uint{*input.ImageID})
		if err != nil {
			return time.Time{}, err
		}
		if missing[*input.ImageID] {
			verr := &content.ValidationError{}
			verr.AddField("image", invalidImageMessage)
			return time.Time{}, verr
		}
	}

	return time.Parse(dateLayout, input.Date)
}
