package queue

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

const channelBuffer = 256

// ErrWriterStopped is returned for mutations submitted after the worker exited.
var ErrWriterStopped = errors.New("user store writer stopped")

type job struct {
	ctx  context.Context
	fn   func() error
	done chan error
}

// SerialWriter routes every mutation of the wrapped repository through one
// worker goroutine, so a load-modify-save cycle never overlaps another one in
// this process. Reads go straight to the wrapped repository.
type SerialWriter struct {
	ports.UserRepository

	jobs    chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewSerialWriter wraps repo. Call Start before submitting mutations.
func NewSerialWriter(repo ports.UserRepository, log zerolog.Logger) *SerialWriter {
	return &SerialWriter{
		UserRepository: repo,
		jobs:           make(chan job, channelBuffer),
		stopped:        make(chan struct{}),
		log:            log,
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (w *SerialWriter) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SerialWriter) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created *domain.User
	err := w.submit(ctx, func() error {
		var err error
		created, err = w.UserRepository.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (w *SerialWriter) Clear(ctx context.Context) error {
	return w.submit(ctx, func() error {
		return w.UserRepository.Clear(ctx)
	})
}

// submit hands fn to the worker. Once queued the job is always waited on, so
// the returned error reflects what happened to the store. A job whose caller
// gave up before the worker reached it is skipped.
func (w *SerialWriter) submit(ctx context.Context, fn func() error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case w.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stopped:
		return ErrWriterStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-w.stopped:
		select {
		case err := <-j.done:
			return err
		default:
			return ErrWriterStopped
		}
	}
}

func (w *SerialWriter) run(ctx context.Context) {
	defer close(w.stopped)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Msg("user store writer stopped")
			return
		case j := <-w.jobs:
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			err := j.fn()
			if err != nil && !errors.Is(err, domain.ErrUserExists) {
				w.log.Error().Err(err).Msg("user store mutation failed")
			}
			j.done <- err
		}
	}
}
