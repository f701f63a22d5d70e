// Package imagen wires the image generation capability to one of three
// backends: the live provider adapter, a recording wrapper around it, or
// a cassette replayer.
//
// Usage:
//
//	import "github.com/BaSui01/imagen"
//
//	gen, err := imagen.Select(imagen.BackendsFromEnv(), liveFactory, logger)
//	resp, err := gen.Generate(ctx, req)
//
// Selection happens once per process; the resulting generator is handed
// to the rest of the program by explicit passing.
package imagen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/imagen/cassette"
	"github.com/BaSui01/imagen/image"
)

// Backends holds the two optional locator signals that steer backend
// selection. Both empty means live mode.
type Backends struct {
	// ReplayPath is a cassette file to serve recorded outcomes from.
	// When set it dominates RecordPath, which is ignored.
	ReplayPath string
	// RecordPath is a cassette file to persist live traffic to.
	RecordPath string
}

// Factory builds the live generator. It is only invoked when replay is
// not requested, so a missing API key does not prevent replaying.
type Factory func() (image.Generator, error)

// Select returns the single generator backing the capability for this
// process: a replayer when ReplayPath is set, otherwise the live
// generator, wrapped in a recorder when RecordPath is set.
func Select(b Backends, live Factory, logger *zap.Logger) (image.Generator, error) {
	if b.ReplayPath != "" {
		return cassette.LoadReplayer(cassette.NewStore(b.ReplayPath), logger)
	}

	gen, err := live()
	if err != nil {
		return nil, err
	}

	if b.RecordPath != "" {
		name := cassetteName(b.RecordPath)
		return cassette.NewRecorder(gen, cassette.NewStore(b.RecordPath), name, GitCommit(), logger), nil
	}
	return gen, nil
}

// BackendsFromEnv reads the locator signals from the environment.
// IMAGEN_REPLAY names a cassette to replay. IMAGEN_RECORD either names
// the cassette to record to or, when set to "1" or "true", records to
// the default timestamped path.
func BackendsFromEnv() Backends {
	b := Backends{ReplayPath: os.Getenv("IMAGEN_REPLAY")}
	switch rec := os.Getenv("IMAGEN_RECORD"); rec {
	case "":
	case "1", "true":
		b.RecordPath = DefaultCassettePath(time.Now().UTC())
	default:
		b.RecordPath = rec
	}
	return b
}

// DefaultCassettePath returns the conventional cassette location for a
// recording session started at the given time.
func DefaultCassettePath(now time.Time) string {
	return filepath.Join(".imagen", "cassettes",
		now.Format("2006-01-02T15-04-05"),
		image.Capability+".cassette.yaml")
}

// cassetteName derives a cassette name from its file path.
func cassetteName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".yaml")
	base = strings.TrimSuffix(base, ".cassette")
	if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
		return fmt.Sprintf("%s-%s", dir, base)
	}
	return base
}

// GitCommit returns the current git revision for cassette provenance,
// or "unknown" when the working tree is not a git checkout.
func GitCommit() string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
