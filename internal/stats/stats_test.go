package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersConcurrentWriters(t *testing.T) {
	const writers = 1000
	c := New()

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			c.AddFileCopied()
			c.AddDirectoryCreated()
			c.AddBytesCopied(7)
			c.AddSymlinkProcessed()
			c.AddError()
			c.AddHardlinkGroup()
			c.AddHardlinkGroupMember()
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.EqualValues(t, writers, snap.FilesCopied)
	assert.EqualValues(t, writers, snap.DirectoriesCreated)
	assert.EqualValues(t, writers*7, snap.BytesCopied)
	assert.EqualValues(t, writers, snap.SymlinksProcessed)
	assert.EqualValues(t, writers, snap.Errors)
	assert.EqualValues(t, writers, snap.HardlinkGroups)
	assert.EqualValues(t, writers, snap.HardlinkGroupMembers)
}

func TestSnapshotString(t *testing.T) {
	c := New()
	c.AddFileCopied()
	c.AddBytesCopied(1024)
	s := c.Snapshot().String()
	assert.Contains(t, s, "Files copied: 1")
	assert.Contains(t, s, "Bytes copied: 1024")
}
