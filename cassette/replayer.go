package cassette

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/imagen/image"
)

type cursorKey struct {
	capability string
	method     string
}

func (k cursorKey) String() string { return k.capability + "::" + k.method }

// Replayer serves recorded outcomes from a loaded cassette without any
// live delegate. Delivery is strictly FIFO per capability/method pair;
// once a queue is exhausted every further call fails and the queue is
// never refilled.
type Replayer struct {
	logger *zap.Logger

	mu     sync.Mutex
	queues map[cursorKey][]Interaction
	total  map[cursorKey]int
}

// NewReplayer creates a replayer over an already loaded cassette.
func NewReplayer(c *Cassette, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	queues := make(map[cursorKey][]Interaction)
	total := make(map[cursorKey]int)
	for _, in := range c.Interactions {
		key := cursorKey{capability: in.Capability, method: in.Method}
		queues[key] = append(queues[key], in)
		total[key]++
	}
	return &Replayer{logger: logger, queues: queues, total: total}
}

// LoadReplayer reads the cassette from the store and creates a replayer.
func LoadReplayer(store *Store, logger *zap.Logger) (*Replayer, error) {
	c, err := store.Read()
	if err != nil {
		return nil, err
	}
	return NewReplayer(c, logger), nil
}

// next pops the head interaction for the given capability/method pair.
func (r *Replayer) next(capability, method string) (Interaction, error) {
	key := cursorKey{capability: capability, method: method}

	r.mu.Lock()
	defer r.mu.Unlock()

	queue, ok := r.queues[key]
	if !ok {
		return Interaction{}, &image.Error{
			Code:    image.ErrConfiguration,
			Message: fmt.Sprintf("cassette has no interactions for %s; available: %v", key, r.availableKeys()),
		}
	}
	if len(queue) == 0 {
		return Interaction{}, &image.Error{
			Code:    image.ErrExhausted,
			Message: fmt.Sprintf("cassette exhausted: all %d interactions for %s have been consumed", r.total[key], key),
		}
	}

	in := queue[0]
	r.queues[key] = queue[1:]
	return in, nil
}

func (r *Replayer) availableKeys() []string {
	keys := make([]string, 0, len(r.queues))
	for k := range r.queues {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// Generate returns the next recorded outcome for the image generation
// capability. The incoming request is not matched against the recorded
// input; playback is positional only.
func (r *Replayer) Generate(_ context.Context, _ *image.Request) (*image.Response, error) {
	in, err := r.next(image.Capability, image.MethodGenerate)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("interaction replayed",
		zap.Uint64("seq", in.Seq),
		zap.Bool("ok", in.Output.Err == nil))
	return in.Output.Result()
}
