package pool

import "sync"

// Pool runs submitted tasks on at most size goroutines. Zero or negative
// size means unbounded.
type Pool struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

func New(size int) *Pool {
	p := &Pool{}
	if size > 0 {
		p.sem = make(chan struct{}, size)
	}
	return p
}

func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	if p.sem != nil {
		p.sem <- struct{}{}
	}
	go func() {
		defer func() {
			if p.sem != nil {
				<-p.sem
			}
			p.wg.Done()
		}()
		task()
	}()
}

// Wait blocks until every submitted task has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
