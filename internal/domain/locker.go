package domain

import (
	"sync"

	"github.com/puzpuzpuz/xsync"
)

// userLocker serializes the mutations of a single user inside this process.
type userLocker struct {
	locks *xsync.MapOf[string, *sync.Mutex]
}

func newUserLocker() *userLocker {
	return &userLocker{locks: xsync.NewMapOf[*sync.Mutex]()}
}

func (l *userLocker) Lock(userID string) (unlock func()) {
	mu, _ := l.locks.LoadOrCompute(userID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}
