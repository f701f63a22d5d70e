package cassette

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/imagen/image"
)

func TestReplayerServesRecordedOrder(t *testing.T) {
	c := testCassette(
		testInteraction(0, "first", okOutcome([]byte("one"))),
		testInteraction(1, "second", okOutcome([]byte("two"))),
		testInteraction(2, "third", okOutcome([]byte("three"))),
	)
	rep := NewReplayer(c, nil)

	// Playback is positional; the request content is irrelevant.
	for _, want := range []string{"one", "two", "three"} {
		resp, err := rep.Generate(context.Background(), testRequest("anything"))
		require.NoError(t, err)
		require.Len(t, resp.Images, 1)
		assert.Equal(t, []byte(want), resp.Images[0].Data)
	}
}

func TestReplayerExhaustedAfterAllInteractions(t *testing.T) {
	c := testCassette(testInteraction(0, "only", okOutcome([]byte("x"))))
	rep := NewReplayer(c, nil)

	_, err := rep.Generate(context.Background(), testRequest("only"))
	require.NoError(t, err)

	// Every subsequent call fails; the cursor is never refilled.
	for i := 0; i < 3; i++ {
		_, err := rep.Generate(context.Background(), testRequest("only"))
		var ie *image.Error
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, image.ErrExhausted, ie.Code)
		assert.Contains(t, ie.Message, "all 1 interactions")
	}
}

func TestReplayerUnknownCapabilityIsConfigurationError(t *testing.T) {
	c := testCassette(Interaction{
		Seq:        0,
		Capability: "other_port",
		Method:     "other_method",
		Output:     okOutcome([]byte("x")),
	})
	rep := NewReplayer(c, nil)

	_, err := rep.Generate(context.Background(), testRequest("x"))
	var ie *image.Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, image.ErrConfiguration, ie.Code)
	assert.Contains(t, ie.Message, "other_port::other_method")
}

func TestReplayerReproducesStoredFailures(t *testing.T) {
	stored := &image.Error{
		Code:       image.ErrUpstream,
		Message:    "content policy violation",
		HTTPStatus: 403,
		Provider:   "openai",
	}
	c := testCassette(
		testInteraction(0, "a", okOutcome([]byte("1"))),
		testInteraction(1, "b", okOutcome([]byte("2"))),
		testInteraction(2, "c", Outcome{Err: stored}),
	)
	rep := NewReplayer(c, nil)

	_, err := rep.Generate(context.Background(), testRequest("a"))
	require.NoError(t, err)
	_, err = rep.Generate(context.Background(), testRequest("b"))
	require.NoError(t, err)

	_, err = rep.Generate(context.Background(), testRequest("c"))
	var ie *image.Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, image.ErrUpstream, ie.Code)
	assert.Equal(t, "content policy violation", ie.Message)
	assert.Equal(t, 403, ie.HTTPStatus)
	assert.Equal(t, "openai", ie.Provider)
}

func TestReplayerConcurrentCallsServeEachRecordOnce(t *testing.T) {
	const calls = 16
	interactions := make([]Interaction, calls)
	for i := range interactions {
		interactions[i] = testInteraction(uint64(i), "p", okOutcome([]byte{byte(i)}))
	}
	rep := NewReplayer(testCassette(interactions...), nil)

	var wg sync.WaitGroup
	served := make(chan byte, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := rep.Generate(context.Background(), testRequest("p"))
			if err == nil && len(resp.Images) == 1 && len(resp.Images[0].Data) == 1 {
				served <- resp.Images[0].Data[0]
			}
		}()
	}
	wg.Wait()
	close(served)

	seen := make(map[byte]bool)
	for b := range served {
		assert.False(t, seen[b], "record %d served twice", b)
		seen[b] = true
	}
	assert.Len(t, seen, calls, "every record served exactly once")
}

// Record through a wrapper around a deterministically failing delegate,
// then replay the cassette: success and failure reproduce in order.
func TestRecordThenReplayRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "rt.cassette.yaml"))

	fake := newFakeGenerator()
	fake.failOn("b", &image.Error{Code: image.ErrUpstream, Message: "boom", HTTPStatus: 500, Provider: "gemini"})
	rec := NewRecorder(fake, store, "rt", "deadbeef", nil)

	_, err := rec.Generate(context.Background(), testRequest("a"))
	require.NoError(t, err)
	_, err = rec.Generate(context.Background(), testRequest("b"))
	require.Error(t, err)

	c, err := store.Read()
	require.NoError(t, err)
	require.Len(t, c.Interactions, 2)
	assert.NotNil(t, c.Interactions[0].Output.OK)
	assert.Nil(t, c.Interactions[0].Output.Err)
	assert.Nil(t, c.Interactions[1].Output.OK)
	assert.NotNil(t, c.Interactions[1].Output.Err)

	rep, err := LoadReplayer(store, nil)
	require.NoError(t, err)

	resp, err := rep.Generate(context.Background(), testRequest("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), resp.Images[0].Data)

	_, err = rep.Generate(context.Background(), testRequest("b"))
	var ie *image.Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "boom", ie.Message)
	assert.Equal(t, 500, ie.HTTPStatus)
}
