package cassette

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/imagen/image"
)

// Recorder wraps a live image.Generator and persists every interaction
// to a cassette file. It is transparent: the delegate's outcome, success
// or failure, is returned to the caller unchanged.
type Recorder struct {
	delegate image.Generator
	store    *Store
	logger   *zap.Logger

	mu       sync.Mutex
	cassette *Cassette
	nextSeq  uint64
}

// NewRecorder creates a recorder around the given delegate. Each call
// rewrites the full cassette through the store, so the artifact on disk
// is durable after every interaction.
func NewRecorder(delegate image.Generator, store *Store, name, commit string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		delegate: delegate,
		store:    store,
		logger:   logger,
		cassette: &Cassette{
			Name:       name,
			RecordedAt: time.Now().UTC(),
			Commit:     commit,
		},
	}
}

// Generate delegates to the wrapped generator and records the outcome.
//
// Sequence numbers are assigned in the same critical section as the
// append, after the delegate returns: callers that give up before their
// delegate call completes never consume a slot, so the recorded range
// stays gap-free under concurrency.
//
// When the delegate succeeds but the cassette cannot be persisted, the
// response is returned together with a store-write error so the caller
// can tell "generated but not saved" apart from "failed to generate".
func (r *Recorder) Generate(ctx context.Context, req *image.Request) (*image.Response, error) {
	resp, genErr := r.delegate.Generate(ctx, req)

	r.mu.Lock()
	rec := Interaction{
		Seq:        r.nextSeq,
		Capability: image.Capability,
		Method:     image.MethodGenerate,
		Input:      *req,
		Output:     NewOutcome(resp, genErr),
	}
	r.nextSeq++
	r.cassette.Interactions = append(r.cassette.Interactions, rec)
	writeErr := r.store.Write(r.cassette)
	r.mu.Unlock()

	if writeErr != nil {
		r.logger.Warn("cassette write failed",
			zap.Uint64("seq", rec.Seq),
			zap.String("path", r.store.Path()),
			zap.Error(writeErr))
		if genErr != nil {
			return nil, errors.Join(genErr, writeErr)
		}
		return resp, writeErr
	}

	r.logger.Debug("interaction recorded",
		zap.Uint64("seq", rec.Seq),
		zap.Bool("ok", genErr == nil))
	return resp, genErr
}

// Len reports how many interactions have been recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cassette.Interactions)
}
