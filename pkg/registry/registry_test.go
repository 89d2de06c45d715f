package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/registry"
)

func TestRegisterAndGet(t *testing.T) {
	reg := registry.New[string]()

	require.NoError(t, reg.Register("alpha", "a"))

	got, err := reg.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestRegisterDuplicate(t *testing.T) {
	reg := registry.New[int]()

	require.NoError(t, reg.Register("x", 1))
	err := reg.Register("x", 2)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestRegisterEmptyName(t *testing.T) {
	reg := registry.New[int]()

	err := reg.Register("", 1)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestReplaceOverwrites(t *testing.T) {
	reg := registry.New[int]()

	require.NoError(t, reg.Register("x", 1))
	require.NoError(t, reg.Replace("x", 2))

	got, err := reg.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestGetMissing(t *testing.T) {
	reg := registry.New[string]()

	_, err := reg.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestListSorted(t *testing.T) {
	reg := registry.New[int]()

	require.NoError(t, reg.Register("charlie", 3))
	require.NoError(t, reg.Register("alpha", 1))
	require.NoError(t, reg.Register("bravo", 2))

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, reg.List())
	assert.Equal(t, 3, reg.Count())
	assert.True(t, reg.Has("bravo"))
	assert.False(t, reg.Has("delta"))
}

func TestConcurrentAccess(t *testing.T) {
	reg := registry.New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = reg.Replace("shared", n)
			_, _ = reg.Get("shared")
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	assert.True(t, reg.Has("shared"))
}

func TestMustRegisterPanics(t *testing.T) {
	reg := registry.New[int]()
	registry.MustRegister(reg, "once", 1)

	assert.Panics(t, func() {
		registry.MustRegister(reg, "once", 2)
	})
}
