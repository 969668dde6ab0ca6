package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermintx/stylemarket/internal/domain"
)

type fakeStorage struct {
	removed []string
}

func (f *fakeStorage) SaveImage(_ context.Context, filename string, _ []byte) (string, error) {
	return "/uploads/" + filename, nil
}

func (f *fakeStorage) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kemeja-flanel-premium", Slugify("Kemeja Flanel Premium"))
	assert.Equal(t, "kaos-oversize-2", Slugify("  Kaos Oversize #2! "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCreateAssignsIDAndSlug(t *testing.T) {
	uc := &ProductUC{Products: &fakeProductRepo{}, Storage: &fakeStorage{}}
	p := &domain.Product{Name: "Celana Chino", Price: 225000, Stock: 4}

	require.NoError(t, uc.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "celana-chino", p.Slug)

	got, err := uc.GetBySlug(context.Background(), "celana-chino")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	uc := &ProductUC{Products: &fakeProductRepo{}, Storage: &fakeStorage{}}
	err := uc.Create(context.Background(), &domain.Product{Name: "X", Price: -1})
	assert.Error(t, err)
}

func TestUpdateReplacingImageRemovesOldFile(t *testing.T) {
	repo := &fakeProductRepo{}
	storage := &fakeStorage{}
	uc := &ProductUC{Products: repo, Storage: storage}

	p := &domain.Product{Name: "Jaket Denim", Price: 300000, Stock: 2, ImageURL: "/uploads/old.jpg"}
	require.NoError(t, uc.Create(context.Background(), p))

	upd := &domain.Product{ID: p.ID, Name: "Jaket Denim", Price: 310000, Stock: 2}
	require.NoError(t, uc.Update(context.Background(), upd, "/uploads/new.jpg"))
	assert.Equal(t, []string{"/uploads/old.jpg"}, storage.removed)
	assert.Equal(t, "/uploads/new.jpg", upd.ImageURL)
}

func TestUpdateKeepsImageWhenNoneUploaded(t *testing.T) {
	repo := &fakeProductRepo{}
	storage := &fakeStorage{}
	uc := &ProductUC{Products: repo, Storage: storage}

	p := &domain.Product{Name: "Jaket Denim", Price: 300000, Stock: 2, ImageURL: "/uploads/keep.jpg"}
	require.NoError(t, uc.Create(context.Background(), p))

	upd := &domain.Product{ID: p.ID, Name: "Jaket Denim", Price: 310000, Stock: 2}
	require.NoError(t, uc.Update(context.Background(), upd, ""))
	assert.Empty(t, storage.removed)
	assert.Equal(t, "/uploads/keep.jpg", upd.ImageURL)
}

func TestReplaceGalleriesRemovesOldFiles(t *testing.T) {
	repo := &fakeProductRepo{}
	storage := &fakeStorage{}
	uc := &ProductUC{Products: repo, Storage: storage}

	p := &domain.Product{Name: "Kaos Polos", Price: 80000, Stock: 9,
		Galleries: []domain.GalleryImage{{URL: "/uploads/g1.jpg"}, {URL: "/uploads/g2.jpg"}}}
	require.NoError(t, uc.Create(context.Background(), p))

	err := uc.ReplaceGalleries(context.Background(), p.ID, []domain.GalleryImage{{URL: "/uploads/g3.jpg"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/g1.jpg", "/uploads/g2.jpg"}, storage.removed)
}

func TestDeleteRemovesAllImageFiles(t *testing.T) {
	repo := &fakeProductRepo{}
	storage := &fakeStorage{}
	uc := &ProductUC{Products: repo, Storage: storage}

	p := &domain.Product{Name: "Hoodie", Price: 250000, Stock: 3, ImageURL: "/uploads/main.jpg",
		Galleries: []domain.GalleryImage{{URL: "/uploads/g1.jpg"}}}
	require.NoError(t, uc.Create(context.Background(), p))

	require.NoError(t, uc.Delete(context.Background(), p.ID))
	assert.ElementsMatch(t, []string{"/uploads/main.jpg", "/uploads/g1.jpg"}, storage.removed)

	_, total, err := uc.List(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
