package service

import (
	"sort"
	"sync"
)

// accountLocks serializes read-modify-write cycles per account so two
// concurrent operations on the same account cannot lose each other's
// balance update.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(accountNumber string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[accountNumber]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountNumber] = m
	}
	return m
}

// Acquire locks the given accounts in sorted order, so a transfer A→B and
// a transfer B→A cannot deadlock. The returned func releases in reverse.
func (l *accountLocks) Acquire(accountNumbers ...string) func() {
	unique := make([]string, 0, len(accountNumbers))
	seen := make(map[string]bool, len(accountNumbers))
	for _, a := range accountNumbers {
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, a := range unique {
		m := l.get(a)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
