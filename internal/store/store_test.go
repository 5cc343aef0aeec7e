package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

type stubBackend struct {
	mu      sync.Mutex
	saved   []domain.Dataset
	loadDS  domain.Dataset
	loadOK  bool
	saveErr error
	loadErr error
	probe   error
	closed  bool
}

func (s *stubBackend) Save(_ context.Context, ds domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, ds)
	return nil
}

func (s *stubBackend) Load(context.Context) (domain.Dataset, bool, error) {
	return s.loadDS, s.loadOK, s.loadErr
}

func (s *stubBackend) Probe(context.Context) error { return s.probe }

func (s *stubBackend) Close() error {
	s.closed = true
	return nil
}

func records() []domain.EdgeRecord {
	return []domain.EdgeRecord{
		{ID: 1, Origin: "R1", Destination: "R2", Weight: 5},
		{ID: 2, Origin: "R2", Destination: "R3", Weight: 10},
	}
}

func TestHolder_EmptyUntilReplaced(t *testing.T) {
	h := NewHolder(&stubBackend{}, nil)

	assert.Nil(t, h.Snapshot())
	assert.Equal(t, 0, h.Snapshot().Len())
}

func TestHolder_Replace(t *testing.T) {
	backend := &stubBackend{}
	h := NewHolder(backend, nil)

	input := records()
	ds, err := h.Replace(context.Background(), "net.csv", input)
	require.NoError(t, err)

	assert.NotEmpty(t, ds.Version)
	assert.Equal(t, "net.csv", ds.Filename)
	assert.False(t, ds.LoadedAt.IsZero())
	assert.Same(t, ds, h.Snapshot())
	require.Len(t, backend.saved, 1)
	assert.Equal(t, ds.Version, backend.saved[0].Version)

	input[0].Origin = "mutated"
	assert.Equal(t, "R1", h.Snapshot().Records[0].Origin)

	next, err := h.Replace(context.Background(), "other.csv", nil)
	require.NoError(t, err)
	assert.NotEqual(t, ds.Version, next.Version)
	assert.Equal(t, "R1", ds.Records[0].Origin, "earlier snapshot is untouched")
}

func TestHolder_ReplaceSaveFailureKeepsPrevious(t *testing.T) {
	backend := &stubBackend{}
	h := NewHolder(backend, nil)
	first, err := h.Replace(context.Background(), "a.csv", records())
	require.NoError(t, err)

	backend.saveErr = errors.New("disk full")
	_, err = h.Replace(context.Background(), "b.csv", nil)
	require.Error(t, err)
	assert.Same(t, first, h.Snapshot())
}

func TestHolder_Load(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		h := NewHolder(&stubBackend{}, nil)
		ok, err := h.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, h.Snapshot())
	})

	t.Run("assigns version", func(t *testing.T) {
		h := NewHolder(&stubBackend{loadOK: true, loadDS: domain.Dataset{Filename: CurrentFile, Records: records()}}, nil)
		ok, err := h.Load(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotEmpty(t, h.Snapshot().Version)
		assert.False(t, h.Snapshot().LoadedAt.IsZero())
		assert.Equal(t, 2, h.Snapshot().Len())
	})

	t.Run("backend error", func(t *testing.T) {
		h := NewHolder(&stubBackend{loadErr: errors.New("corrupt")}, nil)
		_, err := h.Load(context.Background())
		assert.ErrorContains(t, err, "load dataset")
	})
}

func TestHolder_ProbeAndClose(t *testing.T) {
	backend := &stubBackend{probe: errors.New("down")}
	h := NewHolder(backend, nil)
	assert.EqualError(t, h.Probe(context.Background()), "down")

	require.NoError(t, h.Close())
	assert.True(t, backend.closed)
	require.NoError(t, h.Close())

	_, err := h.Replace(context.Background(), "x.csv", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHolder_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	h := NewHolder(&stubBackend{}, nil)
	_, err := h.Replace(context.Background(), "a.csv", records())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ds := h.Snapshot()
				assert.Contains(t, []int{2, 3}, ds.Len())
			}
		}()
	}
	for i := 0; i < 20; i++ {
		recs := records()
		if i%2 == 0 {
			recs = append(recs, domain.EdgeRecord{ID: 3, Origin: "R3", Destination: "R4", Weight: 1})
		}
		_, err := h.Replace(context.Background(), "b.csv", recs)
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestHolder_Reload(t *testing.T) {
	backend := &stubBackend{}
	h := NewHolder(backend, nil)
	first, err := h.Replace(context.Background(), "net.csv", records())
	require.NoError(t, err)

	backend.loadOK = true
	backend.loadDS = domain.Dataset{Filename: CurrentFile, Records: records()}
	changed, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "identical records keep the current snapshot")
	assert.Same(t, first, h.Snapshot())

	backend.loadDS.Records = records()[:1]
	changed, err = h.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEqual(t, first.Version, h.Snapshot().Version)
	assert.Equal(t, 1, h.Snapshot().Len())
}

func TestHolder_RejectsInvalidStoredRecords(t *testing.T) {
	bad := domain.Dataset{Filename: CurrentFile, Records: []domain.EdgeRecord{
		{ID: 1, Origin: "R1", Destination: "R2", Weight: 5},
		{ID: 2, Origin: "R2", Destination: "R3", Weight: -1},
	}}

	t.Run("load", func(t *testing.T) {
		h := NewHolder(&stubBackend{loadOK: true, loadDS: bad}, nil)
		ok, err := h.Load(context.Background())
		assert.False(t, ok)
		assert.ErrorContains(t, err, "record 2")
		assert.Nil(t, h.Snapshot())
	})

	t.Run("reload", func(t *testing.T) {
		backend := &stubBackend{}
		h := NewHolder(backend, nil)
		first, err := h.Replace(context.Background(), "net.csv", records())
		require.NoError(t, err)

		backend.loadOK = true
		backend.loadDS = bad
		changed, err := h.Reload(context.Background())
		assert.False(t, changed)
		assert.ErrorContains(t, err, "reload dataset")
		assert.Same(t, first, h.Snapshot())
	})
}
