package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/menu/repository"
	"github.com/Symbiotnev/PITIA-pitia/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrMissingSectionName = errors.New("section name is required")
	ErrInvalidItem        = errors.New("item name and positive price are required")
)

// ImageUpload is an optional image attached to an item create/update.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type MenuService struct {
	repo    repository.MenuRepository
	objects storage.ObjectStore
	log     *zap.Logger
}

func NewMenuService(repo repository.MenuRepository, objects storage.ObjectStore, log *zap.Logger) *MenuService {
	return &MenuService{repo: repo, objects: objects, log: log}
}

func (s *MenuService) AddSection(ctx context.Context, providerID, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingSectionName
	}
	return s.repo.AddSection(ctx, &domain.Section{ProviderID: providerID, Name: name})
}

// RemoveSection deletes the section's items before the section itself so a
// partial failure never leaves orphaned items pointing at a dead section.
func (s *MenuService) RemoveSection(ctx context.Context, sectionID string) error {
	items, err := s.repo.ListItemsBySection(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("list section items: %w", err)
	}
	for _, item := range items {
		if err := s.removeItemRecord(ctx, item); err != nil {
			return err
		}
	}
	return s.repo.RemoveSection(ctx, sectionID)
}

// AddItem uploads the image first and compensates with an object delete if
// the record insert fails, so no orphaned objects accumulate in storage.
func (s *MenuService) AddItem(ctx context.Context, item *domain.Item, image *ImageUpload) (string, error) {
	if strings.TrimSpace(item.Name) == "" || item.Price <= 0 {
		return "", ErrInvalidItem
	}

	if image != nil {
		key := storage.MenuImageKey(item.ProviderID, image.Filename)
		url, err := s.objects.Upload(ctx, key, image.ContentType, image.Body)
		if err != nil {
			return "", fmt.Errorf("upload item image: %w", err)
		}
		item.ImageURL = url
		item.ImageKey = key
	}

	id, err := s.repo.AddItem(ctx, item)
	if err != nil {
		s.compensateUpload(item.ImageKey)
		return "", fmt.Errorf("insert item: %w", err)
	}
	return id, nil
}

// UpdateItem uploads a replacement image before touching the record; the
// old object is deleted only after the record update succeeds, and the new
// object is deleted if it fails.
func (s *MenuService) UpdateItem(ctx context.Context, item *domain.Item, image *ImageUpload) error {
	if strings.TrimSpace(item.Name) == "" || item.Price <= 0 {
		return ErrInvalidItem
	}

	current, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	oldKey := current.ImageKey
	item.ImageURL = current.ImageURL
	item.ImageKey = current.ImageKey

	if image != nil {
		key := storage.MenuImageKey(item.ProviderID, image.Filename)
		url, err := s.objects.Upload(ctx, key, image.ContentType, image.Body)
		if err != nil {
			return fmt.Errorf("upload item image: %w", err)
		}
		item.ImageURL = url
		item.ImageKey = key
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		if image != nil {
			s.compensateUpload(item.ImageKey)
		}
		return fmt.Errorf("update item: %w", err)
	}

	if image != nil && oldKey != "" {
		s.compensateUpload(oldKey)
	}
	return nil
}

func (s *MenuService) RemoveItem(ctx context.Context, itemID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	return s.removeItemRecord(ctx, item)
}

func (s *MenuService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return s.repo.GetItem(ctx, itemID)
}

// Menu returns the provider's sections with their items, for the customer
// menu view.
func (s *MenuService) Menu(ctx context.Context, providerID string) ([]*domain.MenuSection, error) {
	sections, err := s.repo.ListSections(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	menu := make([]*domain.MenuSection, 0, len(sections))
	for _, section := range sections {
		items, err := s.repo.ListItemsBySection(ctx, section.ID)
		if err != nil {
			return nil, fmt.Errorf("list items for section %s: %w", section.ID, err)
		}
		menu = append(menu, &domain.MenuSection{Section: *section, Items: items})
	}
	return menu, nil
}

func (s *MenuService) removeItemRecord(ctx context.Context, item *domain.Item) error {
	if err := s.repo.RemoveItem(ctx, item.ID); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if item.ImageKey != "" {
		s.compensateUpload(item.ImageKey)
	}
	return nil
}

// compensateUpload removes a stored object whose owning record no longer
// exists. Best-effort: a failed compensation is logged, not propagated.
func (s *MenuService) compensateUpload(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.objects.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete stored object", zap.String("key", key), zap.Error(err))
	}
}
