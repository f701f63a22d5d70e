/*
Package image defines the image generation capability shared by every
backend: the Generator contract, the request/response model, the unified
error type, model name resolution, and parameter validation tables.

Two live adapters are included, one for the Google Gemini API and one for
the OpenAI Images API. Both satisfy Generator, as do the recording and
replaying backends in the cassette package; callers hold a Generator and
never inspect which concrete implementation is behind it.
*/
package image
