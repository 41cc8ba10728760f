package Buffer

import "github.com/g-m-twostay/structkit"

// minFillWindow is the working-space floor Fill reserves before asking a
// conduit to top the buffer up, guaranteeing downstream conduit filters
// (decompressors, line splitters) always see a usable window.
const minFillWindow = 32

// Style classifies the byte content a Buffer carries, inherited from a
// bound Conduit or defaulted to Raw for memory-only buffers.
type Style int

const (
	Raw Style = iota
	Text
	Binary
)

// Buffer is a fixed-capacity byte window, optionally bound to a Conduit
// for auto-fill-on-read and auto-drain-on-write. It is single-owner and
// non-reentrant: no method may be called concurrently with any other on
// the same instance.
type Buffer struct {
	data     []byte
	position int
	limit    int
	style    Style
	conduit  Conduit
}

// NewBuffer builds an empty pure-memory buffer of the given capacity.
// Over/underflow conditions on it are always fatal — there is no conduit
// to fall back to.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity), style: Raw}
}

// NewBufferFrom builds a buffer over an externally supplied byte region,
// fully readable (position=0, limit=len(data)). No conduit is bound to
// it, so it behaves exactly like a pure-memory buffer.
func NewBufferFrom(data []byte) *Buffer {
	return &Buffer{data: data, limit: len(data), style: Raw}
}

// NewConduitBuffer builds a buffer bound to c, sized and styled from the
// conduit's own preferences.
func NewConduitBuffer(c Conduit) *Buffer {
	style := Binary
	if c.IsTextual() {
		style = Text
	}
	return &Buffer{data: make([]byte, c.BufferSize()), style: style, conduit: c}
}

// Capacity returns the fixed length of the backing region.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Position returns the current read cursor.
func (b *Buffer) Position() int {
	return b.position
}

// Limit returns the end of readable content.
func (b *Buffer) Limit() int {
	return b.limit
}

// Style returns the buffer's text/binary/raw classification.
func (b *Buffer) Style() Style {
	return b.style
}

// Conduit returns the bound conduit, or nil if the buffer is pure memory.
func (b *Buffer) Conduit() Conduit {
	return b.conduit
}

// Readable returns the number of unread bytes.
func (b *Buffer) Readable() int {
	return b.limit - b.position
}

// Writable returns the remaining free space past limit.
func (b *Buffer) Writable() int {
	return len(b.data) - b.limit
}

// Bytes returns a zero-copy view of the current readable window
// (data[position:limit]). Like every slice this package hands out, it is
// a borrowed view invalidated by any subsequent mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data[b.position:b.limit]
}

// Get returns n bytes starting at position, advancing position by n iff
// eat is true. When fewer than n bytes are readable, it compresses and
// refills from the bound conduit until enough arrive, failing with a
// capacity error if n exceeds capacity or no conduit is bound, or a
// conduit error if the conduit hits Eof before enough bytes arrive.
func (b *Buffer) Get(n int, eat bool) ([]byte, error) {
	if n > b.Readable() {
		if n > len(b.data) {
			return nil, structkit.NewCapacityError("requested more bytes than the buffer's capacity")
		}
		if b.conduit == nil {
			return nil, structkit.NewCapacityError("not enough readable bytes and no conduit bound")
		}
		b.Compress()
		for b.Readable() < n {
			filled, err := b.refillFrom(b.conduit)
			if err != nil {
				return nil, err
			}
			if filled == 0 {
				return nil, structkit.NewConduitError("conduit reached Eof before enough bytes arrived")
			}
		}
	}
	out := b.data[b.position : b.position+n]
	if eat {
		b.position += n
	}
	return out, nil
}

// GetInto copies min(Readable(), len(dst)) bytes into dst, then — if dst
// is still not full and a conduit is bound — asks the conduit to fill the
// remainder directly. It returns the total bytes produced.
func (b *Buffer) GetInto(dst []byte) uint {
	n := copy(dst, b.data[b.position:b.limit])
	b.position += n
	if n < len(dst) && b.conduit != nil {
		if more := b.conduit.Fill(dst[n:]); more != Eof {
			n += int(more)
		}
	}
	return uint(n)
}

// Append writes src into data[limit:], advancing limit. If src doesn't
// fit and a conduit is bound, the buffer is flushed first; if src alone
// still exceeds capacity, it is written straight to the conduit,
// bypassing the buffer entirely. With no conduit bound, insufficient
// space is a capacity error.
func (b *Buffer) Append(src []byte) error {
	if len(src) <= b.Writable() {
		copy(b.data[b.limit:], src)
		b.limit += len(src)
		return nil
	}
	if b.conduit == nil {
		return structkit.NewCapacityError("write exceeds capacity and no conduit is bound")
	}
	if err := b.Flush(); err != nil {
		return err
	}
	if len(src) > len(b.data) {
		for written := 0; written < len(src); {
			n := b.conduit.Write(src[written:])
			if n == Eof {
				return structkit.NewConduitError("conduit refused writes before src was exhausted")
			}
			written += int(n)
		}
		return nil
	}
	copy(b.data[b.limit:], src)
	b.limit += len(src)
	return nil
}

// Skip rewinds position by -n (bounded by position) when n is negative,
// or consumes n bytes via Get when n is non-negative.
func (b *Buffer) Skip(n int) error {
	if n < 0 {
		back := -n
		if back > b.position {
			back = b.position
		}
		b.position -= back
		return nil
	}
	_, err := b.Get(n, true)
	return err
}

// Compress moves the unread window data[position:limit] to data[0:],
// discarding the already-read prefix, and sets position=0, limit=readable.
// Calling it twice in a row has the same effect as calling it once.
func (b *Buffer) Compress() {
	if b.position == 0 {
		return
	}
	readable := b.Readable()
	if readable > 0 {
		copy(b.data, b.data[b.position:b.limit])
	}
	b.position = 0
	b.limit = readable
}

// Clear resets position and limit to zero, discarding all content.
func (b *Buffer) Clear() {
	b.position = 0
	b.limit = 0
}

// Truncate sets limit to extent and reports whether it did so — it
// refuses when extent exceeds capacity.
func (b *Buffer) Truncate(extent int) bool {
	if extent > len(b.data) {
		return false
	}
	b.limit = extent
	return true
}

// Flush asks the bound conduit to consume data[position:limit] in one
// call. On success the buffer is cleared; on refusal it fails with a
// conduit error. Flushing with no conduit bound is a configuration error.
func (b *Buffer) Flush() error {
	if b.conduit == nil {
		return structkit.NewConfigurationError("flush requires a bound conduit")
	}
	if !b.conduit.Flush(b.data[b.position:b.limit]) {
		return structkit.NewConduitError("conduit did not accept the full flush")
	}
	b.Clear()
	return nil
}

// Drain writes as much of data[position:limit] as the conduit will
// accept this call — partial acceptance is normal, not an error — then
// compresses. Draining with no conduit bound is a configuration error.
func (b *Buffer) Drain() error {
	if b.conduit == nil {
		return structkit.NewConfigurationError("drain requires a bound conduit")
	}
	n := b.conduit.Write(b.data[b.position:b.limit])
	if n != Eof {
		b.position += int(n)
	}
	b.Compress()
	return nil
}

// refillFrom asks c to fill data[limit:capacity] and advances limit by
// whatever it produced. It's a raw single-shot primitive with none of
// FillFrom's empty/compress/window policy, used by the refill loop
// inside Get.
func (b *Buffer) refillFrom(c Conduit) (uint, error) {
	n := c.Fill(b.data[b.limit:])
	if n == Eof {
		return 0, nil
	}
	b.limit += int(n)
	return n, nil
}

// FillFrom tops the buffer up from c, an explicitly supplied conduit that
// need not be the one the buffer is bound to (or need not be bound to any
// conduit at all). An empty buffer is simply cleared first; otherwise, if
// fewer than 32 bytes are free, it compresses and requires at least that
// much working space afterward, failing with a configuration error if
// compression didn't free enough.
func (b *Buffer) FillFrom(c Conduit) error {
	if b.Readable() == 0 {
		b.Clear()
	} else if b.Writable() < minFillWindow {
		b.Compress()
		if b.Writable() < minFillWindow {
			return structkit.NewConfigurationError("input buffer is too small to reserve a working window")
		}
	}
	n := c.Fill(b.data[b.limit:])
	if n == Eof {
		return structkit.NewConduitError("conduit reached Eof while filling")
	}
	b.limit += int(n)
	return nil
}

// Fill tops the buffer up from the bound conduit. Filling with no conduit
// bound is a configuration error; see FillFrom for the underlying policy.
func (b *Buffer) Fill() error {
	if b.conduit == nil {
		return structkit.NewConfigurationError("fill requires a bound conduit")
	}
	return b.FillFrom(b.conduit)
}

// Next is the tokenising primitive: scan is called with the readable
// window and reports either bytes-consumed to a matched delimiter or Eof
// meaning "no match yet". On a match, position advances by the returned
// amount and Next returns true. On no match with no conduit bound, the
// remaining readable content is skipped and Next returns false. With a
// conduit bound, the window is compacted (or, if there's no room left,
// fails with a capacity error) and refilled before scanning again; if the
// conduit reaches Eof first, the remainder is skipped and Next returns
// false.
func (b *Buffer) Next(scan Scanner) (bool, error) {
	for {
		res := scan(b.data[b.position:b.limit])
		if res != Eof {
			b.position += int(res)
			return true, nil
		}
		if b.conduit == nil {
			b.position = b.limit
			return false, nil
		}
		if b.position > 0 {
			b.Compress()
		} else if b.Writable() == 0 {
			return false, structkit.NewCapacityError("token too large for the buffer's capacity")
		}
		n := b.conduit.Fill(b.data[b.limit:])
		if n == Eof {
			b.position = b.limit
			return false, nil
		}
		b.limit += int(n)
	}
}

// Read passes data[position:limit] to dg and, on a non-Eof return,
// advances position by the bytes dg reports consuming.
func (b *Buffer) Read(dg ReadDelegate) (uint, error) {
	n := dg(b.data[b.position:b.limit])
	if n == Eof {
		return Eof, structkit.NewConduitError("read delegate returned Eof")
	}
	b.position += int(n)
	return n, nil
}

// Write passes data[limit:capacity] to dg and, on a non-Eof return,
// advances limit by the bytes dg reports producing.
func (b *Buffer) Write(dg WriteDelegate) (uint, error) {
	n := dg(b.data[b.limit:])
	if n == Eof {
		return Eof, structkit.NewConduitError("write delegate returned Eof")
	}
	b.limit += int(n)
	return n, nil
}

// Wait blocks until at least one readable byte is present, by calling
// Get(1, false) and discarding the slice.
func (b *Buffer) Wait() error {
	_, err := b.Get(1, false)
	return err
}
