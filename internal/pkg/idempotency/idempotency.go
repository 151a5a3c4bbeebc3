// Package idempotency makes client retries of write requests safe by
// recording, per key, whether an operation is running or what it produced.
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrInvalidState      = errors.New("invalid state")
)

type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // another request holds the key
	StateCompleted  State = "completed"   // a result is stored for the key
	StateError      State = "error"       // the tracker itself failed
)

func (s State) String() string {
	return string(s)
}

const completedPrefix = "completed:"

type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) (string, error), opts ...Option) (string, error)
}

// StateTracker keeps idempotency state in redis under "idempotency:<key>".
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an unfinished operation holds the key.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long a completed result is remembered.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// Acquire tries to start an operation. When the key is already completed the
// stored result is returned too.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, string, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, "", err
	}
	if acquired {
		return StateNone, "", nil
	}

	value, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// the previous holder expired between SETNX and GET
		return s.Acquire(ctx, key, lockDuration)
	}
	if err != nil {
		return StateError, "", err
	}

	switch {
	case value == StateInProgress.String():
		return StateInProgress, "", nil
	case strings.HasPrefix(value, completedPrefix):
		return StateCompleted, strings.TrimPrefix(value, completedPrefix), nil
	default:
		return StateError, "", ErrInvalidState
	}
}

// MarkCompleted stores result for key for ttl.
func (s *StateTracker) MarkCompleted(ctx context.Context, key, result string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, completedPrefix+result, ttl).Err()
}

// Release forgets key so the operation can be retried.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn at most once per key.
//
// A repeated call after success returns the first result together with
// ErrAlreadyCompleted. A call while fn is still running returns
// ErrAlreadyInProgress. When fn fails the key is released so the client can
// retry with a corrected request.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) (string, error), opts ...Option) (string, error) {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, stored, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return "", err
	}

	switch state {
	case StateInProgress:
		return "", ErrAlreadyInProgress
	case StateCompleted:
		return stored, ErrAlreadyCompleted
	}

	result, err := fn(ctx)
	if err != nil {
		if relErr := s.Release(context.WithoutCancel(ctx), key); relErr != nil {
			return "", errors.Join(err, relErr)
		}
		return "", err
	}

	if err := s.MarkCompleted(ctx, key, result, execOpt.stateTTL); err != nil {
		return result, err
	}

	return result, nil
}
