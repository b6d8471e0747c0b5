package history

import "errors"

var (
	// ErrNoHost is returned by New when no host document is supplied.
	ErrNoHost = errors.New("history: no host canvas")
	// ErrSerialize wraps failures capturing a snapshot.
	ErrSerialize = errors.New("history: serialize failed")
	// ErrDeserialize wraps failures restoring a snapshot.
	ErrDeserialize = errors.New("history: deserialize failed")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("history: engine closed")
)
