package emit

import "github.com/xy-planning-network/relay/logger"

// An EmitterOptFn is a functional option configuring an *Emitter when constructing a new one.
type EmitterOptFn func(*Emitter)

// WithLogger sets the logger.Logger an *Emitter reports failed emissions with.
func WithLogger(l logger.Logger) EmitterOptFn {
	return func(em *Emitter) {
		em.logger = l
	}
}

// WithChunkSize sets the number of bytes streamed bodies are written in.
//
// Non-positive sizes are ignored.
func WithChunkSize(size int) EmitterOptFn {
	return func(em *Emitter) {
		if size > 0 {
			em.chunkSize = size
		}
	}
}
