package cassette

import (
	"context"
	"sync"

	"github.com/BaSui01/imagen/image"
)

// fakeGenerator is a deterministic image.Generator for recorder tests:
// it echoes the prompt back as image bytes, and prompts listed in
// failPrompts fail with the configured error.
type fakeGenerator struct {
	mu          sync.Mutex
	calls       int
	failPrompts map[string]*image.Error
	response    func(req *image.Request) *image.Response
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		failPrompts: make(map[string]*image.Error),
		response: func(req *image.Request) *image.Response {
			return &image.Response{Images: []image.Image{
				{Data: []byte(req.Prompt), MimeType: "image/png"},
			}}
		},
	}
}

func (f *fakeGenerator) failOn(prompt string, err *image.Error) {
	f.failPrompts[prompt] = err
}

func (f *fakeGenerator) Generate(_ context.Context, req *image.Request) (*image.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.failPrompts[req.Prompt]; ok {
		return nil, err
	}
	return f.response(req), nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
