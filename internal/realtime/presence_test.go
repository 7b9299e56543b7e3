package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceReferenceCounting(t *testing.T) {
	p := NewPresence()

	// Two tabs for the same user.
	p.Join(1, 10)
	p.Join(1, 10)
	p.Join(1, 20)
	assert.Equal(t, []uint{10, 20}, p.Online(1))

	// Closing one tab keeps the user online.
	p.Leave(1, 10)
	assert.Equal(t, []uint{10, 20}, p.Online(1))

	// Closing the last tab takes them offline.
	p.Leave(1, 10)
	assert.Equal(t, []uint{20}, p.Online(1))
}

func TestPresenceDuplicateLeaveIsHarmless(t *testing.T) {
	p := NewPresence()
	p.Join(1, 10)
	p.Leave(1, 10)
	p.Leave(1, 10)
	p.Leave(2, 99)
	assert.Empty(t, p.Online(1))

	// The user can come back afterwards.
	p.Join(1, 10)
	assert.Equal(t, []uint{10}, p.Online(1))
}

func TestPresenceEvictsEmptyBoards(t *testing.T) {
	p := NewPresence()
	p.Join(7, 1)
	p.Join(7, 2)
	p.Leave(7, 1)
	p.Leave(7, 2)

	p.mu.Lock()
	_, exists := p.boards[7]
	p.mu.Unlock()
	assert.False(t, exists, "board entry must be removed once empty")
}

func TestPresenceConcurrentChurn(t *testing.T) {
	p := NewPresence()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Join(1, userID)
				p.Leave(1, userID)
			}
			p.Join(1, userID)
		}(uint(i))
	}
	wg.Wait()
	assert.Len(t, p.Online(1), 50)
}
