// File: internal/infra/worker/pool.go
package worker

import (
	"errors"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// Pool runs submitted pipeline jobs on a bounded goroutine pool so that
// execution is decoupled from the request/response cycle.
type Pool struct {
	pool *ants.Pool
}

func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p}, nil
}

// Submit schedules task for execution. It returns an error when the pool
// has been released; tasks queue rather than drop while it is open.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return errors.New("nil task")
	}
	return p.pool.Submit(task)
}

// Release stops accepting tasks and releases the workers.
func (p *Pool) Release() {
	p.pool.Release()
}
