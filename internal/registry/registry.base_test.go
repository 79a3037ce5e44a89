package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearh/internal/common"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("a", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.Error(t, err)
}

func TestRegistry_MustGetMissing(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.MustGet("users")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Register(string(rune('a'+i%26)), i)
			_, _ = r.Get("a")
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Names(), 26)
}
