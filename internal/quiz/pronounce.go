package quiz

import "context"

// Pronouncer speaks a word or sentence aloud. It is an optional capability;
// the engine works without one.
type Pronouncer interface {
	Pronounce(ctx context.Context, text string) error
}

// PronouncerFunc adapts a function to Pronouncer.
type PronouncerFunc func(ctx context.Context, text string) error

// Pronounce calls f.
func (f PronouncerFunc) Pronounce(ctx context.Context, text string) error {
	return f(ctx, text)
}

// NopPronouncer discards everything.
type NopPronouncer struct{}

// Pronounce does nothing.
func (NopPronouncer) Pronounce(context.Context, string) error { return nil }
