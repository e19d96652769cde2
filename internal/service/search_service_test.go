package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-search/internal/filter"
	"apartment-search/internal/model"
	"apartment-search/internal/repository"
)

// fakeStore behaves like the sample repository until told to fail.
type fakeStore struct {
	*repository.SampleRepository

	mu       sync.Mutex
	queryErr error
	pingErr  error
	finds    int
	counts   int
}

func newFakeStore(rows []model.Listing) *fakeStore {
	return &fakeStore{SampleRepository: repository.NewSampleRepository(rows)}
}

func (f *fakeStore) set(queryErr, pingErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryErr, f.pingErr = queryErr, pingErr
}

func (f *fakeStore) Find(ctx context.Context, plan filter.Plan) ([]model.Listing, error) {
	f.mu.Lock()
	f.finds++
	err := f.queryErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.SampleRepository.Find(ctx, plan)
}

func (f *fakeStore) Count(ctx context.Context, plan filter.Plan) (int, error) {
	f.mu.Lock()
	f.counts++
	err := f.queryErr
	f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return f.SampleRepository.Count(ctx, plan)
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	f.mu.Lock()
	err := f.queryErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.SampleRepository.GetByID(ctx, id)
}

func (f *fakeStore) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func storeRows() []model.Listing {
	s := model.Str
	return []model.Listing{
		{ID: 101, Name: s("Db Tower"), Bed: s("2 Bed"), Bath: s("1 Bath"), State: s("WA")},
		{ID: 102, Name: s("Db Gardens"), Bed: s("1 Bed"), Bath: s("1 Bath"), State: s("WA")},
		{ID: 103, Name: s("Db Annex"), Bed: s("3 Bed"), Bath: s("2 Bath"), State: s("OR")},
	}
}

func newTestService(store Store) *SearchService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sample := repository.NewSampleRepository(repository.DefaultSampleRows())
	return NewSearchService(store, sample, log, Options{ProbeTimeout: 50 * time.Millisecond})
}

func intPtr(v int) *int { return &v }

func TestSearchService_ServesStoreWhenUp(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))
	assert.Equal(t, model.SourceDB, svc.Mode())

	page, err := svc.Execute(context.Background(), filter.Compile(model.FilterCriteria{Bath: "1"}))
	require.NoError(t, err)
	assert.Equal(t, model.SourceDB, page.Source)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 2, page.TotalCount)
}

func TestSearchService_StartsInSampleMode(t *testing.T) {
	store := newFakeStore(storeRows())
	store.set(nil, errors.New("connection refused"))
	svc := newTestService(store)

	assert.False(t, svc.Probe(context.Background()))
	assert.Equal(t, model.SourceSample, svc.Mode())

	page, err := svc.Execute(context.Background(), filter.Compile(model.FilterCriteria{Bath: "1"}))
	require.NoError(t, err)
	assert.Equal(t, model.SourceSample, page.Source)
	assert.NotEmpty(t, page.Rows)
	for _, r := range page.Rows {
		assert.Equal(t, "1 Bath", *r.Bath)
	}
	assert.Zero(t, store.finds, "store must not be queried while down")
}

func TestSearchService_NilStore(t *testing.T) {
	svc := newTestService(nil)
	assert.False(t, svc.Probe(context.Background()))

	page, err := svc.Execute(context.Background(), filter.Compile(model.FilterCriteria{}))
	require.NoError(t, err)
	assert.Equal(t, model.SourceSample, page.Source)
	assert.Len(t, page.Rows, len(repository.DefaultSampleRows()))

	svc.Watch(context.Background(), time.Millisecond)
}

func TestSearchService_FallsBackWhenStoreGoesAway(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))

	down := errors.New("connection reset by peer")
	store.set(down, down)

	plan := filter.Compile(model.FilterCriteria{State: "TX"})
	page, err := svc.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, model.SourceSample, page.Source)
	assert.Equal(t, model.SourceSample, svc.Mode())
	assert.Equal(t, 3, page.TotalCount)

	again, err := svc.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestSearchService_QueryErrorWhileStoreAlive(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))

	store.set(errors.New("column does not exist"), nil)

	_, err := svc.Execute(context.Background(), filter.Compile(model.FilterCriteria{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuery)
	assert.Equal(t, model.SourceDB, svc.Mode(), "a live store stays selected")
}

func TestSearchService_CanceledContextDoesNotFallBack(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))

	store.set(context.Canceled, errors.New("unreachable"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Execute(ctx, filter.Compile(model.FilterCriteria{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrQuery)
	assert.Equal(t, model.SourceDB, svc.Mode())
}

func TestSearchService_SkipsCountOnShortPage(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))
	ctx := context.Background()

	page, err := svc.Execute(ctx, filter.Compile(model.FilterCriteria{Page: intPtr(0), Size: intPtr(10)}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Zero(t, store.counts)

	page, err = svc.Execute(ctx, filter.Compile(model.FilterCriteria{Page: intPtr(0), Size: intPtr(2)}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, store.counts)

	page, err = svc.Execute(ctx, filter.Compile(model.FilterCriteria{Page: intPtr(5), Size: intPtr(2)}))
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, store.counts)
}

func TestSearchService_Get(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))
	ctx := context.Background()

	l, src, err := svc.Get(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, model.SourceDB, src)
	assert.Equal(t, "Db Tower", *l.Name)

	_, _, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	down := errors.New("broken pipe")
	store.set(down, down)
	l, src, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SourceSample, src)
	assert.Equal(t, "Sample Towers", *l.Name)
}

func TestSearchService_WatchRecovers(t *testing.T) {
	store := newFakeStore(storeRows())
	store.set(nil, errors.New("down"))
	svc := newTestService(store)
	require.False(t, svc.Probe(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	store.set(nil, nil)
	assert.Eventually(t, func() bool { return svc.Mode() == model.SourceDB }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestSearchService_ConcurrentExecute(t *testing.T) {
	store := newFakeStore(storeRows())
	svc := newTestService(store)
	require.True(t, svc.Probe(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 10 {
				down := errors.New("gone")
				store.set(down, down)
			}
			page, err := svc.Execute(context.Background(), filter.Compile(model.FilterCriteria{}))
			assert.NoError(t, err)
			assert.NotNil(t, page)
		}(i)
	}
	wg.Wait()
}
