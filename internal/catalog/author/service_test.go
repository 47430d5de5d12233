// Copyright (c) 2026 Qumran. All rights reserved.

package author_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/catalog/author"
	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/viewcache/viewcachetest"
	"github.com/qumran/qumran/pkg/pointer"
	"github.com/qumran/qumran/pkg/slug"
)

// memoryRepository is an in-memory [author.Repository] keyed like the
// authors_natural_key index.
type memoryRepository struct {
	rows       map[int]*author.Author
	nextID     int
	referenced map[int]bool
	calls      int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int]*author.Author{}, referenced: map[int]bool{}}
}

func naturalKey(first *string, last string) string {
	return strings.ToLower(last) + "\x00" + strings.ToLower(pointer.Val(first))
}

func (repository *memoryRepository) List(_ context.Context, _ listing.Filter, _, _ int) ([]*author.Author, int, error) {
	repository.calls++
	var out []*author.Author
	for _, row := range repository.rows {
		out = append(out, row)
	}
	return out, len(out), nil
}

func (repository *memoryRepository) GetByID(_ context.Context, id int) (*author.Author, error) {
	repository.calls++
	row, ok := repository.rows[id]
	if !ok {
		return nil, apperr.NotFound(author.Resource)
	}
	return row, nil
}

func (repository *memoryRepository) GetBySlug(_ context.Context, value string) (*author.Author, error) {
	repository.calls++
	for _, row := range repository.rows {
		if row.Slug == value {
			return row, nil
		}
	}
	return nil, apperr.NotFound(author.Resource)
}

func (repository *memoryRepository) Create(_ context.Context, input author.Input) (*author.Author, error) {
	repository.calls++
	var taken []string
	for _, row := range repository.rows {
		taken = append(taken, row.Slug)
	}
	repository.nextID++
	row := &author.Author{
		ID:        repository.nextID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Slug:      slug.Unique(slug.From(input.FullName()), taken),
	}
	repository.rows[row.ID] = row
	return row, nil
}

func (repository *memoryRepository) Update(_ context.Context, id int, input author.Input) (*author.Author, error) {
	repository.calls++
	row, ok := repository.rows[id]
	if !ok {
		return nil, apperr.NotFound(author.Resource)
	}
	row.FirstName, row.LastName = input.FirstName, input.LastName
	return row, nil
}

func (repository *memoryRepository) Delete(_ context.Context, id int) error {
	repository.calls++
	if _, ok := repository.rows[id]; !ok {
		return apperr.NotFound(author.Resource)
	}
	if repository.referenced[id] {
		return apperr.Referenced(author.Resource)
	}
	delete(repository.rows, id)
	return nil
}

func (repository *memoryRepository) FindOrCreate(ctx context.Context, input author.Input) (*author.Author, bool, error) {
	key := naturalKey(input.FirstName, input.LastName)
	for _, row := range repository.rows {
		if naturalKey(row.FirstName, row.LastName) == key {
			repository.calls++
			return row, false, nil
		}
	}
	row, err := repository.Create(ctx, input)
	return row, true, err
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService() (*author.Service, *memoryRepository, *viewcachetest.Recorder) {
	repository := newMemoryRepository()
	views := &viewcachetest.Recorder{}
	return author.NewService(repository, views, quietLogger), repository, views
}

func TestFindOrCreate_IsIdempotentIgnoringCase(t *testing.T) {
	service, repository, views := newService()
	ctx := context.Background()

	first, err := service.FindOrCreate(ctx, author.Input{FirstName: pointer.To("Gabriel"), LastName: "García Márquez"})
	require.NoError(t, err)
	assert.Equal(t, "gabriel-garcia-marquez", first.Slug)
	assert.NotEmpty(t, views.Paths())

	views.Reset()
	second, err := service.FindOrCreate(ctx, author.Input{FirstName: pointer.To(" GABRIEL "), LastName: "garcía márquez"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repository.rows, 1)
	assert.Empty(t, views.Paths(), "resolving an existing author must not invalidate views")
}

/*
TestFindOrCreate_MissingFirstNameIsItsOwnKey checks that a last name alone
resolves to a different author than the same last name with a first name,
and that a blank first name counts as none.
*/
func TestFindOrCreate_MissingFirstNameIsItsOwnKey(t *testing.T) {
	service, repository, _ := newService()
	ctx := context.Background()

	full, err := service.FindOrCreate(ctx, author.Input{FirstName: pointer.To("Gabriel"), LastName: "García"})
	require.NoError(t, err)

	bare, err := service.FindOrCreate(ctx, author.Input{LastName: "García"})
	require.NoError(t, err)
	assert.NotEqual(t, full.ID, bare.ID)
	assert.Nil(t, bare.FirstName)

	blank, err := service.FindOrCreate(ctx, author.Input{FirstName: pointer.To("   "), LastName: "garcía"})
	require.NoError(t, err)
	assert.Equal(t, bare.ID, blank.ID)
	assert.Len(t, repository.rows, 2)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   author.Input
		message string
	}{
		{"missing_last_name", author.Input{FirstName: pointer.To("Jorge Luis")}, "last_name: This field is required"},
		{"blank_last_name", author.Input{LastName: "  "}, "last_name: This field is required"},
		{"long_last_name", author.Input{LastName: strings.Repeat("x", author.MaxNameLength+1)}, "last_name: Maximum 200 characters"},
		{"long_first_name", author.Input{FirstName: pointer.To(strings.Repeat("x", author.MaxNameLength+1)), LastName: "Borges"}, "first_name: Maximum 200 characters"},
		{"symbols_only", author.Input{LastName: "¿?"}, "last_name: Must contain at least one letter or digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repository, views := newService()

			_, err := service.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, tt.message, err.Error())
			assert.Zero(t, repository.calls)
			assert.Empty(t, views.Paths())
		})
	}
}

func TestCreate_NormalizesNames(t *testing.T) {
	service, _, _ := newService()

	created, err := service.Create(context.Background(), author.Input{FirstName: pointer.To(" "), LastName: "  Homero "})
	require.NoError(t, err)

	assert.Nil(t, created.FirstName)
	assert.Equal(t, "Homero", created.LastName)
	assert.Equal(t, "homero", created.Slug)
}

func TestMutations_InvalidateAuthorAndBookViews(t *testing.T) {
	service, _, views := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, author.Input{FirstName: pointer.To("Jorge Luis"), LastName: "Borges"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/api/v1/authors", "/api/v1/dashboard/authors", "/api/v1/books"}, views.Paths())

	views.Reset()
	_, err = service.Update(ctx, created.ID, author.Input{FirstName: pointer.To("J. L."), LastName: "Borges"})
	require.NoError(t, err)
	assert.Contains(t, views.Paths(), "/api/v1/authors/jorge-luis-borges")

	views.Reset()
	require.NoError(t, service.Delete(ctx, created.ID))
	assert.Contains(t, views.Paths(), "/api/v1/authors/jorge-luis-borges")
}

func TestDelete_ReferencedKeepsRow(t *testing.T) {
	service, repository, views := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, author.Input{LastName: "Cortázar"})
	require.NoError(t, err)
	repository.referenced[created.ID] = true
	views.Reset()

	err = service.Delete(ctx, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeReferenced))
	assert.Contains(t, repository.rows, created.ID)
	assert.Empty(t, views.Paths())
}

func TestList_RejectsUnknownSort(t *testing.T) {
	service, repository, _ := newService()

	_, _, err := service.List(context.Background(), listing.Filter{Sort: "birthday"}, 0, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Zero(t, repository.calls)
}

func TestInput_FullName(t *testing.T) {
	assert.Equal(t, "Jorge Luis Borges", author.Input{FirstName: pointer.To(" Jorge Luis "), LastName: "Borges"}.FullName())
	assert.Equal(t, "Homero", author.Input{FirstName: pointer.To(""), LastName: "Homero"}.FullName())
}
