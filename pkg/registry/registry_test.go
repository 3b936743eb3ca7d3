package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()

	require.NoError(t, r.Register("b", fixtures.Minimal()))
	require.NoError(t, r.Register("a", fixtures.LastSymbol()))
	assert.Equal(t, []string{"a", "b"}, r.Names())

	def, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 5, len(def.States()))

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)

	assert.Error(t, r.Register("", fixtures.Minimal()))
	assert.Error(t, r.Register("nil", nil))

	// Overwrite
	require.NoError(t, r.Register("a", fixtures.Minimal()))
	def, _ = r.Get("a")
	assert.Equal(t, 3, len(def.States()))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.NewRegistry()
	def := fixtures.Minimal()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register("m", def)
			_, _ = r.Get("m")
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"m"}, r.Names())
}
