package concepts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	calls   atomic.Int32
	release chan struct{}
	list    []string
	err     error
}

func (f *fakeLister) ListConcepts(_ context.Context, _ string) ([]string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.list, f.err
}

func TestInventoryBuiltin(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"variables", "functions", "closures", "async", "event loop"}, inv.Concepts("JavaScript"))
	assert.Nil(t, inv.Concepts("javascript"), "skill names are matched exactly")
	assert.Nil(t, inv.Concepts("Rust"))

	assert.Equal(t, Known, inv.Classify("React.js"))
	assert.Equal(t, Known, inv.Classify("Deep Learning"), "ontology entries are known")
	assert.Equal(t, Unknown, inv.Classify("Rust"))

	rel, ok := inv.Relation("XGBoost")
	require.True(t, ok)
	assert.Equal(t, []string{"Scikit-Learn"}, rel.Prerequisites)
}

func TestInventoryConceptsIsACopy(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	list := inv.Concepts("CSS")
	list[0] = "changed"

	assert.Equal(t, "selectors", inv.Concepts("CSS")[0])
}

func TestInventoryBootstrapPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dynamic.yaml")
	lister := &fakeLister{list: []string{"ownership", "borrowing", "lifetimes"}}

	inv, err := NewInventory(NewStore(path), lister, nil)
	require.NoError(t, err)

	got, err := inv.Bootstrap(context.Background(), "Rust")
	require.NoError(t, err)
	assert.Equal(t, lister.list, got)
	assert.Equal(t, lister.list, inv.Concepts("Rust"))
	assert.Equal(t, Unknown, inv.Classify("Rust"), "learned concepts do not make a skill known")

	_, err = inv.Bootstrap(context.Background(), "Rust")
	require.NoError(t, err)
	assert.EqualValues(t, 1, lister.calls.Load(), "stored concepts are reused")

	reloaded, err := NewInventory(NewStore(path), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, lister.list, reloaded.Concepts("Rust"))
	assert.Contains(t, reloaded.Skills(), "Rust")
}

func TestInventoryBootstrapSkipsKnownSkills(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{list: []string{"x"}}
	inv, err := NewInventory(NewStore(""), lister, nil)
	require.NoError(t, err)

	got, err := inv.Bootstrap(context.Background(), "HTML")
	require.NoError(t, err)
	assert.Equal(t, "elements", got[0])
	assert.Zero(t, lister.calls.Load())
}

func TestInventoryBootstrapDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{list: []string{"goroutines", "channels"}, release: make(chan struct{})}
	inv, err := NewInventory(NewStore(filepath.Join(t.TempDir(), "dynamic.yaml")), lister, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for n := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], _ = inv.Bootstrap(context.Background(), "Go")
		}(n)
	}

	require.Eventually(t, func() bool { return lister.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(lister.release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, lister.list, r)
	}
	assert.EqualValues(t, 1, lister.calls.Load())
}

func TestInventoryBootstrapErrors(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(NewStore(""), nil, nil)
	require.NoError(t, err)

	_, err = inv.Bootstrap(context.Background(), "Rust")
	assert.ErrorIs(t, err, ErrNoLister)

	_, err = inv.Bootstrap(context.Background(), "  ")
	assert.Error(t, err)

	boom := errors.New("boom")
	failing, err := NewInventory(NewStore(""), &fakeLister{err: boom}, nil)
	require.NoError(t, err)

	_, err = failing.Bootstrap(context.Background(), "Rust")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, failing.Concepts("Rust"))
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dynamic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))

	_, err := NewInventory(NewStore(path), nil, nil)
	assert.Error(t, err)
}
