package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/menu/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockMenuRepo struct {
	m         sync.RWMutex
	sections  map[string]*domain.Section
	items     map[string]*domain.Item
	insertErr error
	updateErr error
	removed   []string // item ids, in removal order
	secGone   []string
}

func newMockMenuRepo() *mockMenuRepo {
	return &mockMenuRepo{
		sections: make(map[string]*domain.Section),
		items:    make(map[string]*domain.Item),
	}
}

func (m *mockMenuRepo) AddSection(_ context.Context, section *domain.Section) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if section.ID == "" {
		section.ID = "section-1"
	}
	m.sections[section.ID] = section
	return section.ID, nil
}

func (m *mockMenuRepo) ListSections(_ context.Context, providerID string) ([]*domain.Section, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []*domain.Section
	for _, s := range m.sections {
		if s.ProviderID == providerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockMenuRepo) RemoveSection(_ context.Context, sectionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.sections[sectionID]; !ok {
		return repository.ErrSectionNotFound
	}
	delete(m.sections, sectionID)
	m.secGone = append(m.secGone, sectionID)
	return nil
}

func (m *mockMenuRepo) AddItem(_ context.Context, item *domain.Item) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertErr != nil {
		return "", m.insertErr
	}
	if item.ID == "" {
		item.ID = "item-1"
	}
	m.items[item.ID] = item
	return item.ID, nil
}

func (m *mockMenuRepo) UpdateItem(_ context.Context, item *domain.Item) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockMenuRepo) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	item, ok := m.items[itemID]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (m *mockMenuRepo) ListItemsBySection(_ context.Context, sectionID string) ([]*domain.Item, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []*domain.Item
	for _, item := range m.items {
		if item.SectionID == sectionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockMenuRepo) RemoveItem(_ context.Context, itemID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.items[itemID]; !ok {
		return repository.ErrItemNotFound
	}
	delete(m.items, itemID)
	m.removed = append(m.removed, itemID)
	return nil
}

type mockObjectStore struct {
	m         sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
}

func (m *mockObjectStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, key)
	return "https://storage.test/" + key, nil
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes = append(m.deletes, key)
	return nil
}

func newTestMenuService(repo *mockMenuRepo, objects *mockObjectStore) *MenuService {
	return NewMenuService(repo, objects, zap.NewNop())
}

func testImage() *ImageUpload {
	return &ImageUpload{
		Filename:    "burger.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("fake image bytes"),
	}
}

func TestAddItem_WithImage(t *testing.T) {
	repo := newMockMenuRepo()
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	id, err := sut.AddItem(context.Background(), &domain.Item{
		SectionID:  "section-1",
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
		Currency:   "KES",
	}, testImage())

	require.NoError(t, err)
	require.Len(t, objects.uploads, 1)
	assert.Contains(t, objects.uploads[0], "menuItems/provider-1/")
	assert.Contains(t, objects.uploads[0], "burger.jpg")
	assert.Equal(t, "https://storage.test/"+objects.uploads[0], repo.items[id].ImageURL)
	assert.Empty(t, objects.deletes)
}

func TestAddItem_InsertFailureDeletesUploadedObject(t *testing.T) {
	repo := newMockMenuRepo()
	repo.insertErr = errors.New("mongo unavailable")
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	_, err := sut.AddItem(context.Background(), &domain.Item{
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
	}, testImage())

	require.Error(t, err)
	require.Len(t, objects.uploads, 1)
	require.Len(t, objects.deletes, 1)
	assert.Equal(t, objects.uploads[0], objects.deletes[0])
}

func TestAddItem_UploadFailureWritesNoRecord(t *testing.T) {
	repo := newMockMenuRepo()
	objects := &mockObjectStore{uploadErr: errors.New("storage down")}
	sut := newTestMenuService(repo, objects)

	_, err := sut.AddItem(context.Background(), &domain.Item{
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
	}, testImage())

	require.Error(t, err)
	assert.Empty(t, repo.items)
}

func TestAddItem_Validation(t *testing.T) {
	sut := newTestMenuService(newMockMenuRepo(), &mockObjectStore{})

	_, err := sut.AddItem(context.Background(), &domain.Item{Name: "", Price: 10}, nil)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = sut.AddItem(context.Background(), &domain.Item{Name: "Burger", Price: 0}, nil)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestUpdateItem_ReplacesImageAndDeletesOldObject(t *testing.T) {
	repo := newMockMenuRepo()
	repo.items["item-1"] = &domain.Item{
		ID:         "item-1",
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
		ImageURL:   "https://storage.test/menuItems/provider-1/old.jpg",
		ImageKey:   "menuItems/provider-1/old.jpg",
	}
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	err := sut.UpdateItem(context.Background(), &domain.Item{
		ID:         "item-1",
		ProviderID: "provider-1",
		Name:       "Double Burger",
		Price:      150,
	}, testImage())

	require.NoError(t, err)
	require.Len(t, objects.deletes, 1)
	assert.Equal(t, "menuItems/provider-1/old.jpg", objects.deletes[0])
	assert.Equal(t, "Double Burger", repo.items["item-1"].Name)
	assert.NotEqual(t, "menuItems/provider-1/old.jpg", repo.items["item-1"].ImageKey)
}

func TestUpdateItem_RecordFailureDeletesNewObjectKeepsOld(t *testing.T) {
	repo := newMockMenuRepo()
	repo.items["item-1"] = &domain.Item{
		ID:       "item-1",
		Name:     "Burger",
		Price:    100,
		ImageKey: "menuItems/provider-1/old.jpg",
	}
	repo.updateErr = errors.New("mongo unavailable")
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	err := sut.UpdateItem(context.Background(), &domain.Item{
		ID:    "item-1",
		Name:  "Double Burger",
		Price: 150,
	}, testImage())

	require.Error(t, err)
	require.Len(t, objects.deletes, 1)
	assert.Equal(t, objects.uploads[0], objects.deletes[0])
}

func TestUpdateItem_WithoutImageKeepsExistingImage(t *testing.T) {
	repo := newMockMenuRepo()
	repo.items["item-1"] = &domain.Item{
		ID:       "item-1",
		Name:     "Burger",
		Price:    100,
		ImageURL: "https://storage.test/menuItems/provider-1/old.jpg",
		ImageKey: "menuItems/provider-1/old.jpg",
	}
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	err := sut.UpdateItem(context.Background(), &domain.Item{
		ID:    "item-1",
		Name:  "Burger Deluxe",
		Price: 120,
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, objects.deletes)
	assert.Equal(t, "menuItems/provider-1/old.jpg", repo.items["item-1"].ImageKey)
}

func TestRemoveSection_RemovesItemsFirst(t *testing.T) {
	repo := newMockMenuRepo()
	repo.sections["section-1"] = &domain.Section{ID: "section-1", ProviderID: "provider-1"}
	repo.items["item-1"] = &domain.Item{ID: "item-1", SectionID: "section-1", Name: "Burger", Price: 100}
	repo.items["item-2"] = &domain.Item{ID: "item-2", SectionID: "section-1", Name: "Fries", Price: 50, ImageKey: "menuItems/provider-1/fries.jpg"}
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	require.NoError(t, sut.RemoveSection(context.Background(), "section-1"))

	assert.Empty(t, repo.items)
	assert.Equal(t, []string{"section-1"}, repo.secGone)
	assert.Len(t, repo.removed, 2)
	// The orphaned image went with its item.
	assert.Equal(t, []string{"menuItems/provider-1/fries.jpg"}, objects.deletes)
}

func TestRemoveItem_DeletesImageObject(t *testing.T) {
	repo := newMockMenuRepo()
	repo.items["item-1"] = &domain.Item{ID: "item-1", Name: "Burger", Price: 100, ImageKey: "menuItems/provider-1/burger.jpg"}
	objects := &mockObjectStore{}
	sut := newTestMenuService(repo, objects)

	require.NoError(t, sut.RemoveItem(context.Background(), "item-1"))
	assert.Equal(t, []string{"menuItems/provider-1/burger.jpg"}, objects.deletes)
}

func TestAddSection_Validation(t *testing.T) {
	sut := newTestMenuService(newMockMenuRepo(), &mockObjectStore{})

	_, err := sut.AddSection(context.Background(), "provider-1", "   ")
	assert.ErrorIs(t, err, ErrMissingSectionName)
}

func TestMenu_GroupsItemsBySection(t *testing.T) {
	repo := newMockMenuRepo()
	repo.sections["section-1"] = &domain.Section{ID: "section-1", ProviderID: "provider-1", Name: "Mains"}
	repo.items["item-1"] = &domain.Item{ID: "item-1", SectionID: "section-1", Name: "Burger", Price: 100}
	sut := newTestMenuService(repo, &mockObjectStore{})

	menu, err := sut.Menu(context.Background(), "provider-1")
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Mains", menu[0].Section.Name)
	require.Len(t, menu[0].Items, 1)
	assert.Equal(t, "Burger", menu[0].Items[0].Name)
}
