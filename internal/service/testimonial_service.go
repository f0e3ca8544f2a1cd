package service

import (
	"errors"
	"strings"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/gorm"
)

var ErrTestimonialNotFound = errors.New("testimonial not found")

// TestimonialInput represents fields accepted when creating or updating a testimonial.
type TestimonialInput struct {
	Quote   string `json:"quote" validate:"required"`
	Name    string `json:"name" validate:"required,max=255"`
	Role    string `json:"role" validate:"max=255"`
	ImageID *uint  `json:"image" validate:"omitempty,gt=0"`
}

func (in *TestimonialInput) clean() {
	in.Quote = strings.TrimSpace(in.Quote)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
}

// TestimonialService handles testimonial snippet CRUD.
type TestimonialService struct {
	db *gorm.DB
}

// NewTestimonialService creates a TestimonialService instance.
func NewTestimonialService(gdb *gorm.DB) *TestimonialService {
	return &TestimonialService{db: gdb}
}

// List returns all testimonials in creation order.
func (s *TestimonialService) List() ([]db.Testimonial, error) {
	var items []db.Testimonial
	if err := s.db.Preload("Image").Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a testimonial by id.
func (s *TestimonialService) Get(id uint) (*db.Testimonial, error) {
	var item db.Testimonial
	if err := s.db.Preload("Image").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new testimonial.
func (s *TestimonialService) Create(input TestimonialInput) (*db.Testimonial, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	item := db.Testimonial{
		Quote:   input.Quote,
		Name:    input.Name,
		Role:    input.Role,
		ImageID: input.ImageID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return s.Get(item.ID)
}

// Update modifies an existing testimonial.
func (s *TestimonialService) Update(id uint, input TestimonialInput) (*db.Testimonial, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Quote = input.Quote
	item.Name = input.Name
	item.Role = input.Role
	item.ImageID = input.ImageID
	item.Image = nil

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(item).Error
}

func (s *TestimonialService) validate(input *TestimonialInput) error {
	input.clean()
	if err := content.ValidateStruct(*input); err != nil {
		return err
	}
	if input.ImageID == nil {
		return nil
	}

	missing, err := missingImageIDs(s.db, []uint{*input.ImageID})
	if err != nil {
		return err
	}
	if missing[*input.ImageID] {
		verr := &content.ValidationError{}
		verr.AddField("image", invalidImageMessage)
		return verr
	}
	return nil
}
