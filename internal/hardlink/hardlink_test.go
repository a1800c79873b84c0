package hardlink

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSingleLinkIsAlwaysCopier(t *testing.T) {
	c := New()
	ticket := c.Register(InodeKey{Device: 1, Inode: 2}, "/src/a", "/dst", "a", 1)
	assert.Equal(t, Copier, ticket.Role)
	// A bare Copier ticket has no record; Wait/Destination are no-ops.
	ticket.Wait()
	dir, name, failed := ticket.Destination()
	assert.Empty(t, dir)
	assert.Empty(t, name)
	assert.False(t, failed)
}

func TestOneCopierManyLinkersOnlyOneCopyHappens(t *testing.T) {
	c := New()
	key := InodeKey{Device: 1, Inode: 99}

	const linkers = 20
	first := c.Register(key, "/src/a", "/dst", "a", uint64(linkers+1))
	require.Equal(t, Copier, first.Role)

	var wg sync.WaitGroup
	results := make([]Ticket, linkers)
	for i := 0; i < linkers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Register(key, "/src/a", "/dst", "a", uint64(linkers+1))
		}(i)
	}
	wg.Wait()

	for _, tk := range results {
		assert.Equal(t, Linker, tk.Role)
	}

	first.SignalCopyComplete(false)

	for _, tk := range results {
		tk.Wait()
		dir, name, failed := tk.Destination()
		assert.Equal(t, "/dst", dir)
		assert.Equal(t, "a", name)
		assert.False(t, failed)
	}

	assert.Equal(t, linkers+1, first.Observed())
}

func TestSignalCopyCompletePropagatesFailure(t *testing.T) {
	c := New()
	key := InodeKey{Device: 1, Inode: 7}
	first := c.Register(key, "/src/b", "/dst", "b", 2)
	second := c.Register(key, "/src/b", "/dst", "b", 2)

	first.SignalCopyComplete(true)
	second.Wait()
	_, _, failed := second.Destination()
	assert.True(t, failed)
}

func TestSignalCopyCompleteIsOneShot(t *testing.T) {
	c := New()
	key := InodeKey{Device: 2, Inode: 1}
	first := c.Register(key, "/src/c", "/dst", "c", 2)

	first.SignalCopyComplete(false)
	assert.NotPanics(t, func() {
		first.SignalCopyComplete(true) // second call must be a no-op
	})
}
