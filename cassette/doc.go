/*
Package cassette records and replays image generation traffic for
deterministic testing.

A Recorder wraps any image.Generator, passes calls through unchanged, and
appends each request/outcome pair to a cassette file. A Replayer loads a
previously recorded cassette and serves the stored outcomes back in
recorded order without touching the network. Both satisfy image.Generator,
so callers cannot tell them apart from the live adapters.

Replay matching is strictly positional: the Nth call receives the Nth
recorded outcome regardless of request content. Callers that issue
requests in a different order than they were recorded will receive
mismatched responses.
*/
package cassette
