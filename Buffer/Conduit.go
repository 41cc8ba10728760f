// Package Buffer implements structkit's dual-mode byte buffer: a fixed
// backing region that mediates between in-memory bytes and an external
// Conduit, with zero-copy slice access and scanner-driven tokenisation.
// See spec.md §4.2 for the full contract; this file and Buffer.go
// implement it.
package Buffer

// Eof is the sentinel Conduit.Read, Conduit.Write, and Conduit.Fill
// return in place of a byte count to signal they have nothing further to
// give or accept. uint can't carry a negative "no more bytes" the way a
// signed count could, so the subsystem reserves this one unreachable-in-
// practice value instead, the same trade the Hasher's HashMem makes when
// it special-cases size 4/8 rather than branching on a signed length.
const Eof uint = ^uint(0)

// Conduit is the external byte source/sink a Buffer can be bound to. The
// buffer owns none of it: it is constructed externally and is never
// closed by the buffer that reads from or writes to it.
type Conduit interface {
	// BufferSize reports the conduit's preferred window size, used to
	// size a Buffer constructed over it via NewConduitBuffer.
	BufferSize() uint

	// IsTextual reports whether the conduit's bytes should be treated as
	// text, informing the Style a NewConduitBuffer buffer is given.
	IsTextual() bool

	// Read copies bytes into p and returns the count copied, or Eof if
	// the conduit has nothing left to give.
	Read(p []byte) uint

	// Write consumes bytes from p and returns the count consumed, or Eof
	// if the conduit refuses further writes.
	Write(p []byte) uint

	// Flush asks the conduit to accept all of p in one call, reporting
	// whether it did.
	Flush(p []byte) bool

	// Fill is a direct-read convenience used by Buffer.Fill and the
	// Get/Next refill loops: copies bytes into p and returns the count
	// copied, or Eof.
	Fill(p []byte) uint
}

// Scanner inspects a readable byte window and reports either the index
// just past a matched delimiter ("bytes consumed", the teacher-neutral
// convention spec.md §9 calls out so scanners stay interoperable across
// buffer implementations) or Eof meaning "no match yet, need more data".
type Scanner func([]byte) uint

// ReadDelegate is passed the buffer's readable window by Buffer.Read; it
// returns the number of bytes it consumed, or Eof if it wants more than
// is currently available.
type ReadDelegate func([]byte) uint

// WriteDelegate is passed the buffer's writable window by Buffer.Write;
// it returns the number of bytes it produced, or Eof if it has nothing
// to write this call.
type WriteDelegate func([]byte) uint
