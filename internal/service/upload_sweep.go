package service

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/globalaidnetwork/internal/db"
	"github.com/robfig/cron/v3"
)

// DefaultSweepGrace keeps fresh files out of a sweep; an upload is written
// to disk before its row is inserted.
const DefaultSweepGrace = time.Hour

// SweepOrphans removes files in the upload directory that no image row
// references and that are older than grace. It returns the number removed.
func (s *ImageService) SweepOrphans(grace time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-grace)
	candidates := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	var known []string
	if err := s.db.Unscoped().Model(&db.Image{}).
		Where("file_name IN ?", candidates).
		Pluck("file_name", &known).Error; err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(known))
	for _, name := range known {
		referenced[name] = true
	}

	removed := 0
	for _, name := range candidates {
		if referenced[name] {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("[image] failed to sweep %s: %v", name, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// StartUploadSweepCron runs SweepOrphans on schedule (standard five-field cron
// syntax or descriptors such as "@hourly"). An empty schedule or "off" disables it.
func StartUploadSweepCron(images *ImageService, schedule string) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" || strings.EqualFold(schedule, "off") {
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		removed, err := images.SweepOrphans(DefaultSweepGrace)
		if err != nil {
			log.Printf("[image] upload sweep failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("[image] upload sweep removed %d orphan files", removed)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[image] upload sweep scheduled (%s)", schedule)
	return c, nil
}
