// Package engagement keeps like and comment counters responsive: changes
// are shown before the backend answers and put back exactly as they were
// when it fails.
package engagement

import (
	"context"
	"errors"
	"sync"

	"blogdesk/internal/models"
)

var ErrInFlight = errors.New("a previous request for this item is still in progress")

// State is what a like button shows.
type State struct {
	Liked bool
	Count int
}

// Flip is the optimistic result of one toggle.
func (s State) Flip() State {
	if s.Liked {
		return State{Liked: false, Count: max(s.Count-1, 0)}
	}
	return State{Liked: true, Count: s.Count + 1}
}

// Adopt applies whatever the backend reported on top of s.
func (s State) Adopt(resp *models.LikeResponse) State {
	if resp == nil {
		return s
	}
	if resp.Liked != nil {
		s.Liked = *resp.Liked
	}
	if resp.LikesCount != nil {
		s.Count = *resp.LikesCount
	}
	return s
}

// Toggler allows one request per key at a time.
type Toggler struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewToggler() *Toggler {
	return &Toggler{inFlight: make(map[string]struct{})}
}

func (t *Toggler) acquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.inFlight[key]; busy {
		return false
	}
	t.inFlight[key] = struct{}{}
	return true
}

func (t *Toggler) release(key string) {
	t.mu.Lock()
	delete(t.inFlight, key)
	t.mu.Unlock()
}

// InFlight reports whether key has a request outstanding.
func (t *Toggler) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.inFlight[key]
	return busy
}

// Do runs fn while holding key, or returns ErrInFlight.
func (t *Toggler) Do(key string, fn func() error) error {
	if !t.acquire(key) {
		return ErrInFlight
	}
	defer t.release(key)
	return fn()
}

// Toggle holds key, reads the current state with load, renders the
// flipped state, sends the request, then renders the final state: the
// loaded state on failure, the backend's figures on success. load runs
// only while key is held, so it always sees the outcome of the previous
// toggle.
func (t *Toggler) Toggle(
	ctx context.Context,
	key string,
	load func() (State, error),
	render func(State),
	send func(context.Context) (*models.LikeResponse, error),
) (State, error) {
	var result State

	err := t.Do(key, func() error {
		current, err := load()
		if err != nil {
			return err
		}
		result = current

		optimistic := current.Flip()
		render(optimistic)

		resp, err := send(ctx)
		if err != nil {
			render(current)
			return err
		}

		result = optimistic.Adopt(resp)
		if result != optimistic {
			render(result)
		}
		return nil
	})

	return result, err
}
