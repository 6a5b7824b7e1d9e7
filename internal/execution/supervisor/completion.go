package supervisor

import (
	"context"
	"sync"
)

// State is the state of a completion.
type State int

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful invocation.
type Result struct {
	// InvocationID identifies the invocation in logs.
	InvocationID string

	// Args are the arguments the worker was started with.
	Args []string

	// Output is the captured stdout of the worker. It is
	// empty if the worker inherits the streams of the parent.
	Output []byte
}

// Completion is resolved exactly once with either a result or an error.
type Completion struct {
	id string

	once sync.Once
	done chan struct{}

	mu        sync.Mutex
	state     State
	result    Result
	err       error
	callbacks []func(Result, error)
}

func newCompletion(id string) *Completion {
	return &Completion{
		id:   id,
		done: make(chan struct{}),
	}
}

// ID returns the invocation id of the completion.
func (c *Completion) ID() string {
	return c.id
}

// Done returns a channel that is closed once the completion is resolved.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// State returns the current state of the completion.
func (c *Completion) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Result returns the result and error of a resolved completion.
// While the completion is pending, it returns the zero result
// and a nil error.
func (c *Completion) Result() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.result, c.err
}

// Wait blocks until the completion is resolved or the context is done.
// Returning early does not affect the invocation.
func (c *Completion) Wait(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-c.done:
		return c.Result()
	}
}

// OnComplete registers fn to be called once the completion is resolved.
// If the completion is already resolved, fn is called immediately.
func (c *Completion) OnComplete(fn func(Result, error)) {
	c.mu.Lock()

	if c.state == Pending {
		c.callbacks = append(c.callbacks, fn)
		c.mu.Unlock()
		return
	}

	result, err := c.result, c.err
	c.mu.Unlock()

	fn(result, err)
}

func (c *Completion) succeed(result Result) bool {
	return c.resolve(result, nil)
}

func (c *Completion) fail(err error) bool {
	return c.resolve(Result{}, err)
}

// resolve settles the completion. It reports whether this call
// resolved it; any later call is ignored.
func (c *Completion) resolve(result Result, err error) bool {
	var applied bool

	c.once.Do(func() {
		applied = true

		c.mu.Lock()
		if err != nil {
			c.state = Failed
			c.err = err
		} else {
			c.state = Succeeded
			c.result = result
		}
		callbacks := c.callbacks
		c.callbacks = nil
		c.mu.Unlock()

		close(c.done)

		for _, fn := range callbacks {
			fn(result, err)
		}
	})

	return applied
}
