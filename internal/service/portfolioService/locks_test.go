package portfolioService

import (
	"sync"
	"testing"
)

func TestSymbolLocks_SerializesPerSymbol(t *testing.T) {
	locks := newSymbolLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("2330")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestSymbolLocks_IndependentSymbols(t *testing.T) {
	locks := newSymbolLocks()

	unlockA := locks.lock("2330")
	defer unlockA()

	// A different symbol must not block while 2330 is held.
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("0050")
		unlockB()
		close(done)
	}()
	<-done
}
