package portfolioService

import "sync"

// symbolLocks serializes writers of one symbol's ledger and holding row while
// leaving unrelated symbols free to proceed. Mutexes are kept for the life of
// the process; the symbol universe is small and bounded.
type symbolLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSymbolLocks() *symbolLocks {
	return &symbolLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the symbol's mutex and returns its unlock function.
func (l *symbolLocks) lock(symbol string) func() {
	l.mu.Lock()
	m, ok := l.locks[symbol]
	if !ok {
		m = &sync.Mutex{}
		l.locks[symbol] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
