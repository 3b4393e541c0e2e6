package collect

import (
	"context"
	"fmt"
	"testing"

	"bookdesk/internal/openlibrary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) SearchISBNs(ctx context.Context, isbns []string) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, isbns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

func (m *mockCatalog) SearchSubject(ctx context.Context, subject string, page, limit int) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, subject, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

func (m *mockCatalog) GetWork(ctx context.Context, key string) (*openlibrary.Work, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Work), args.Error(1)
}

func makeISBNs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("978%010d", i)
	}
	return out
}

func docFor(isbn string) openlibrary.Doc {
	return openlibrary.Doc{Title: "Book " + isbn, ISBNs: []string{isbn}}
}

func TestFetchByISBNs(t *testing.T) {
	ctx := context.Background()

	t.Run("partitions into chunks of fifty in order", func(t *testing.T) {
		ids := makeISBNs(120)
		cat := new(mockCatalog)
		cat.On("SearchISBNs", ctx, ids[0:50]).Return(&openlibrary.SearchResponse{}, nil).Once()
		cat.On("SearchISBNs", ctx, ids[50:100]).Return(&openlibrary.SearchResponse{}, nil).Once()
		cat.On("SearchISBNs", ctx, ids[100:120]).Return(&openlibrary.SearchResponse{}, nil).Once()

		_, run := NewService(cat).FetchByISBNs(ctx, ids)

		cat.AssertExpectations(t)
		assert.Equal(t, 3, run.Chunks)
		assert.NotEmpty(t, run.ID)
	})

	t.Run("failed chunk is skipped, later chunks still run", func(t *testing.T) {
		ids := makeISBNs(60)
		cat := new(mockCatalog)
		cat.On("SearchISBNs", ctx, ids[0:50]).Return(nil, fmt.Errorf("gateway timeout")).Once()
		cat.On("SearchISBNs", ctx, ids[50:60]).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{docFor(ids[50])},
		}, nil).Once()

		books, run := NewService(cat).FetchByISBNs(ctx, ids)

		cat.AssertExpectations(t)
		require.Len(t, books, 1)
		assert.Equal(t, []string{ids[50]}, books[0].ISBNs)
		assert.Equal(t, 1, run.ChunksFailed)
		require.Len(t, run.Errors, 1)
		assert.Contains(t, run.Errors[0], "gateway timeout")
	})

	t.Run("records keep chunk order", func(t *testing.T) {
		ids := makeISBNs(52)
		cat := new(mockCatalog)
		cat.On("SearchISBNs", ctx, ids[0:50]).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{docFor(ids[3]), docFor(ids[7])},
		}, nil).Once()
		cat.On("SearchISBNs", ctx, ids[50:52]).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{docFor(ids[51])},
		}, nil).Once()

		books, run := NewService(cat).FetchByISBNs(ctx, ids)

		require.Len(t, books, 3)
		assert.Equal(t, []string{ids[3]}, books[0].ISBNs)
		assert.Equal(t, []string{ids[7]}, books[1].ISBNs)
		assert.Equal(t, []string{ids[51]}, books[2].ISBNs)
		assert.Equal(t, 3, run.DocsMatched)
	})

	t.Run("every chunk failing yields an empty, valid collection", func(t *testing.T) {
		ids := makeISBNs(2)
		cat := new(mockCatalog)
		cat.On("SearchISBNs", ctx, ids).Return(nil, fmt.Errorf("boom")).Once()

		books, run := NewService(cat).FetchByISBNs(ctx, ids)

		assert.Empty(t, books)
		assert.Equal(t, 1, run.ChunksFailed)
	})
}

func TestSampleBySubject(t *testing.T) {
	ctx := context.Background()

	t.Run("builds unloaded records carrying cover ids", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("SearchSubject", ctx, "fiction", 2, 10).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{{
				Key:         "/works/OL1W",
				Title:       "Dune",
				AuthorNames: []string{"Frank Herbert"},
				CoverID:     12885183,
			}},
		}, nil).Once()

		books, err := NewService(cat).SampleBySubject(ctx, "fiction", 2, 10)
		require.NoError(t, err)

		require.Len(t, books, 1)
		assert.False(t, books[0].DescriptionLoaded)
		assert.Empty(t, books[0].Description)
		assert.Equal(t, 12885183, books[0].CoverID)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/12885183-L.jpg", books[0].CoverURLLarge)
	})

	t.Run("prefers a thirteen digit isbn", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("SearchSubject", ctx, "fiction", 1, 10).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{{
				Title: "Dune",
				ISBNs: []string{"0441013597", "9780441013593"},
			}},
		}, nil).Once()

		books, err := NewService(cat).SampleBySubject(ctx, "fiction", 1, 10)
		require.NoError(t, err)

		require.Len(t, books, 1)
		assert.Equal(t, []string{"9780441013593"}, books[0].ISBNs)
		assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780441013593-M.jpg", books[0].CoverURLMedium)
	})

	t.Run("search failure is returned", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("SearchSubject", ctx, "fiction", 1, 10).Return(nil, fmt.Errorf("down")).Once()

		_, err := NewService(cat).SampleBySubject(ctx, "fiction", 1, 10)
		assert.Error(t, err)
	})
}

func TestChunkISBNs(t *testing.T) {
	chunks := chunkISBNs(makeISBNs(120), 50)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 50)
	assert.Len(t, chunks[1], 50)
	assert.Len(t, chunks[2], 20)
	assert.Equal(t, makeISBNs(120)[0], chunks[0][0])
	assert.Equal(t, makeISBNs(120)[119], chunks[2][19])

	assert.Nil(t, chunkISBNs(nil, 50))
}
