package service

import (
	"errors"
	"strings"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/gorm"
)

var ErrStatisticNotFound = errors.New("statistic not found")

// StatisticInput represents fields accepted when creating or updating a statistic.
type StatisticInput struct {
	IconName string `json:"icon_name" validate:"required,oneof=users heart trending_up hand_heart"`
	Value    string `json:"value" validate:"required,max=255"`
	Label    string `json:"label" validate:"required,max=255"`
}

func (in *StatisticInput) clean() {
	in.IconName = strings.TrimSpace(in.IconName)
	in.Value = strings.TrimSpace(in.Value)
	in.Label = strings.TrimSpace(in.Label)
}

// StatisticService handles statistic snippet CRUD.
type StatisticService struct {
	db *gorm.DB
}

// NewStatisticService creates a StatisticService instance.
func NewStatisticService(gdb *gorm.DB) *StatisticService {
	return &StatisticService{db: gdb}
}

// List returns all statistics in creation order.
func (s *StatisticService) List() ([]db.Statistic, error) {
	var items []db.Statistic
	if err := s.db.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a statistic by id.
func (s *StatisticService) Get(id uint) (*db.Statistic, error) {
	var item db.Statistic
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatisticNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new statistic.
func (s *StatisticService) Create(input StatisticInput) (*db.Statistic, error) {
	input.clean()
	if err := content.ValidateStruct(input); err != nil {
		return nil, err
	}

	item := db.Statistic{
		IconName: input.IconName,
		Value:    input.Value,
		Label:    input.Label,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing statistic.
func (s *StatisticService) Update(id uint, input StatisticInput) (*db.Statistic, error) {
	input.clean()
	if err := content.ValidateStruct(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.IconName = input.IconName
	item.Value = input.Value
	item.Label = input.Label

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a statistic.
func (s *StatisticService) Delete(id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(item).Error
}
