package services

import (
	"log"
	"maps"
	"sync"

	"github.com/fmujezinovic/mojblog/internal/repository"
)

// SettingService caches all settings in memory; writes go through the
// repository and refresh the cache, so reads never touch the database.
type SettingService struct {
	repo *repository.SettingRepository

	mu    sync.RWMutex
	cache map[string]string
}

func NewSettingService(repo *repository.SettingRepository) *SettingService {
	s := &SettingService{
		repo:  repo,
		cache: make(map[string]string),
	}
	s.reload()
	return s
}

func (s *SettingService) reload() {
	settings, err := s.repo.All()
	if err != nil {
		log.Printf("failed to load settings: %v", err)
		return
	}

	s.mu.Lock()
	s.cache = settings
	s.mu.Unlock()
}

// GetAllSettings returns a copy of the cached settings map.
func (s *SettingService) GetAllSettings() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.cache), nil
}

// GetSetting returns one cached value; a missing key reads as "".
func (s *SettingService) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key], nil
}

// UpdateSettings persists the given keys and refreshes the cache once.
func (s *SettingService) UpdateSettings(settings map[string]string) error {
	for key, value := range settings {
		if err := s.repo.Upsert(key, value); err != nil {
			return err
		}
	}
	s.reload()
	return nil
}
