package service

import (
	"sync"
	"testing"
)

func TestAcquire_DuplicateAccountsDoNotDeadlock(t *testing.T) {
	locks := newAccountLocks()

	unlock := locks.Acquire("ACC-A", "ACC-A")
	unlock()

	// Reacquirable after release.
	unlock = locks.Acquire("ACC-A")
	unlock()
}

func TestAcquire_OppositeOrderingsDoNotDeadlock(t *testing.T) {
	locks := newAccountLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := locks.Acquire("ACC-A", "ACC-B")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := locks.Acquire("ACC-B", "ACC-A")
			unlock()
		}()
	}
	wg.Wait()
}
