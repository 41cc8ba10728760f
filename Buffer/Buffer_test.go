package Buffer

import (
	"bytes"
	"testing"
)

// fakeConduit is a minimal in-memory Conduit backed by a byte slice,
// used to exercise the conduit-backed code paths without any real I/O.
type fakeConduit struct {
	in       []byte // unread bytes available to Read/Fill
	out      bytes.Buffer
	textual  bool
	prefSize uint
	refuse   bool // Write/Flush always report failure
}

func (c *fakeConduit) BufferSize() uint { return c.prefSize }
func (c *fakeConduit) IsTextual() bool  { return c.textual }

func (c *fakeConduit) Read(p []byte) uint {
	if len(c.in) == 0 {
		return Eof
	}
	n := copy(p, c.in)
	c.in = c.in[n:]
	return uint(n)
}

func (c *fakeConduit) Fill(p []byte) uint {
	return c.Read(p)
}

func (c *fakeConduit) Write(p []byte) uint {
	if c.refuse {
		return Eof
	}
	n, _ := c.out.Write(p)
	return uint(n)
}

func (c *fakeConduit) Flush(p []byte) bool {
	if c.refuse {
		return false
	}
	c.out.Write(p)
	return true
}

func TestBuffer_AppendOverflow(t *testing.T) {
	b := NewBuffer(8)
	if err := b.Append([]byte("hello")); err != nil {
		t.Fatalf("Append(hello) = %v, want nil", err)
	}
	if b.Readable() != 5 {
		t.Fatalf("Readable() = %d, want 5", b.Readable())
	}
	if err := b.Append([]byte(" world")); err == nil {
		t.Fatal("Append(' world') should overflow with no conduit bound")
	}
}

func TestBuffer_RoundTrip(t *testing.T) {
	b := NewBuffer(32)
	src := []byte("round trip")
	if err := b.Append(src); err != nil {
		t.Fatalf("Append = %v", err)
	}
	got, err := b.Get(len(src), true)
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("Get() = %q, want %q", got, src)
	}
	if b.Position() != len(src) {
		t.Fatalf("Position() = %d, want %d", b.Position(), len(src))
	}
}

func TestBuffer_TokenScan(t *testing.T) {
	b := NewBufferFrom([]byte("foo\nbar\nbaz"))
	scan := func(p []byte) uint {
		for i, c := range p {
			if c == '\n' {
				return uint(i + 1)
			}
		}
		return Eof
	}
	var tokens [][]byte
	for {
		start := b.Position()
		ok, err := b.Next(scan)
		if err != nil {
			t.Fatalf("Next = %v", err)
		}
		if !ok {
			break
		}
		tokens = append(tokens, bytes.TrimSuffix(b.data[start:b.Position()], []byte("\n")))
	}
	if len(tokens) != 2 || string(tokens[0]) != "foo" || string(tokens[1]) != "bar" {
		t.Fatalf("tokens = %v, want [foo bar]", tokens)
	}
	if b.Readable() != 0 {
		t.Fatalf("Readable() = %d, want 0 (trailing \"baz\" skipped)", b.Readable())
	}
}

func TestBuffer_CompressionRoundTrip(t *testing.T) {
	b := NewBufferFrom(make([]byte, 16))
	copy(b.data, "0123456789")
	b.limit = 10
	if _, err := b.Get(4, true); err != nil {
		t.Fatalf("Get(4) = %v", err)
	}
	if b.Position() != 4 {
		t.Fatalf("Position() = %d, want 4", b.Position())
	}
	b.Compress()
	if b.Position() != 0 || b.Limit() != 6 {
		t.Fatalf("after Compress: position=%d limit=%d, want 0 6", b.Position(), b.Limit())
	}
	if string(b.data[:6]) != "456789" {
		t.Fatalf("data[:6] = %q, want %q", b.data[:6], "456789")
	}
}

func TestBuffer_CompressionIdempotent(t *testing.T) {
	b := NewBufferFrom([]byte("0123456789"))
	b.Get(4, true)
	b.Compress()
	pos, lim := b.Position(), b.Limit()
	snapshot := append([]byte(nil), b.data...)
	b.Compress()
	if b.Position() != pos || b.Limit() != lim {
		t.Fatalf("second Compress() changed position/limit: (%d,%d) -> (%d,%d)", pos, lim, b.Position(), b.Limit())
	}
	if !bytes.Equal(b.data, snapshot) {
		t.Fatal("second Compress() changed the backing data")
	}
}

func TestBuffer_GetUnderflowNoConduit(t *testing.T) {
	b := NewBufferFrom([]byte("abc"))
	if _, err := b.Get(3, false); err != nil {
		t.Fatalf("Get(3) = %v, want nil (n == readable)", err)
	}
	if _, err := b.Get(4, false); err == nil {
		t.Fatal("Get(4) should underflow (n == readable+1, no conduit)")
	}
}

func TestBuffer_ConduitFillOnGet(t *testing.T) {
	c := &fakeConduit{in: []byte("xyz"), prefSize: 8}
	b := NewConduitBuffer(c)
	got, err := b.Get(3, true)
	if err != nil {
		t.Fatalf("Get(3) = %v", err)
	}
	if string(got) != "xyz" {
		t.Fatalf("Get(3) = %q, want xyz", got)
	}
}

func TestBuffer_ConduitEofOnGet(t *testing.T) {
	c := &fakeConduit{in: []byte("xy"), prefSize: 8}
	b := NewConduitBuffer(c)
	if _, err := b.Get(3, true); err == nil {
		t.Fatal("Get(3) should fail: conduit only has 2 bytes")
	}
}

func TestBuffer_Flush(t *testing.T) {
	c := &fakeConduit{prefSize: 8}
	b := NewConduitBuffer(c)
	b.Append([]byte("hi"))
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	if b.Readable() != 0 {
		t.Fatalf("Readable() after Flush = %d, want 0", b.Readable())
	}
	if c.out.String() != "hi" {
		t.Fatalf("conduit received %q, want hi", c.out.String())
	}
}

func TestBuffer_FlushRefused(t *testing.T) {
	c := &fakeConduit{prefSize: 8, refuse: true}
	b := NewConduitBuffer(c)
	b.Append([]byte("hi"))
	if err := b.Flush(); err == nil {
		t.Fatal("Flush() should fail when the conduit refuses")
	}
}

func TestBuffer_AppendBypassesForOversizedSrc(t *testing.T) {
	c := &fakeConduit{prefSize: 4}
	b := NewConduitBuffer(c)
	big := bytes.Repeat([]byte("a"), 10)
	if err := b.Append(big); err != nil {
		t.Fatalf("Append(big) = %v", err)
	}
	if c.out.Len() != len(big) {
		t.Fatalf("conduit received %d bytes, want %d", c.out.Len(), len(big))
	}
	if b.Readable() != 0 {
		t.Fatalf("Readable() = %d, want 0 (buffer bypassed)", b.Readable())
	}
}

func TestBuffer_Wait(t *testing.T) {
	c := &fakeConduit{in: []byte("z"), prefSize: 8}
	b := NewConduitBuffer(c)
	if err := b.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if b.Readable() == 0 {
		t.Fatal("Wait() should leave at least one readable byte")
	}
}

func TestBuffer_Truncate(t *testing.T) {
	b := NewBuffer(8)
	if !b.Truncate(5) {
		t.Fatal("Truncate(5) should succeed within capacity")
	}
	if b.Limit() != 5 {
		t.Fatalf("Limit() = %d, want 5", b.Limit())
	}
	if b.Truncate(9) {
		t.Fatal("Truncate(9) should fail past capacity")
	}
}

func TestBuffer_Bytes(t *testing.T) {
	b := NewBufferFrom([]byte("hello"))
	if string(b.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want hello", b.Bytes())
	}
	b.Get(2, true)
	if string(b.Bytes()) != "llo" {
		t.Fatalf("Bytes() after Get(2) = %q, want llo", b.Bytes())
	}
}

func TestBuffer_Skip(t *testing.T) {
	b := NewBufferFrom([]byte("0123456789"))
	if err := b.Skip(3); err != nil {
		t.Fatalf("Skip(3) = %v", err)
	}
	if b.Position() != 3 {
		t.Fatalf("Position() = %d, want 3", b.Position())
	}
	if err := b.Skip(-2); err != nil {
		t.Fatalf("Skip(-2) = %v", err)
	}
	if b.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", b.Position())
	}
	if err := b.Skip(-5); err != nil {
		t.Fatalf("Skip(-5) = %v", err)
	}
	if b.Position() != 0 {
		t.Fatalf("Position() = %d, want 0 (rewind bounded by position)", b.Position())
	}
}

func TestBuffer_Drain(t *testing.T) {
	c := &fakeConduit{prefSize: 8}
	b := NewConduitBuffer(c)
	b.Append([]byte("drain me"))
	if err := b.Drain(); err != nil {
		t.Fatalf("Drain() = %v", err)
	}
	if c.out.Len() == 0 {
		t.Fatal("Drain() should have written something to the conduit")
	}
}

func TestBuffer_Fill(t *testing.T) {
	c := &fakeConduit{in: []byte("loaded"), prefSize: 64}
	b := NewConduitBuffer(c)
	if err := b.Fill(); err != nil {
		t.Fatalf("Fill() = %v, want nil", err)
	}
	if b.Readable() != 6 {
		t.Fatalf("Readable() after Fill() = %d, want 6", b.Readable())
	}
	if b2 := NewBuffer(8); b2.Fill() == nil {
		t.Fatal("Fill() with no bound conduit should fail")
	}
}

// FillFrom lets a caller top a buffer up from a conduit other than the one
// it's bound to (or, as here, from the only conduit around when none is
// bound at all).
func TestBuffer_FillFrom(t *testing.T) {
	b := NewBuffer(64)
	c := &fakeConduit{in: []byte("from elsewhere"), prefSize: 64}
	if err := b.FillFrom(c); err != nil {
		t.Fatalf("FillFrom(c) = %v, want nil", err)
	}
	if b.Readable() != 14 {
		t.Fatalf("Readable() after FillFrom(c) = %d, want 14", b.Readable())
	}
	got, _ := b.Get(14, false)
	if string(got) != "from elsewhere" {
		t.Fatalf("Get(14) = %q, want %q", got, "from elsewhere")
	}

	// FillFrom reaches past whatever conduit the buffer is bound to.
	bound := &fakeConduit{in: []byte("bound"), prefSize: 64}
	other := &fakeConduit{in: []byte("other"), prefSize: 64}
	cb := NewConduitBuffer(bound)
	if err := cb.FillFrom(other); err != nil {
		t.Fatalf("FillFrom(other) = %v, want nil", err)
	}
	got2, _ := cb.Get(5, false)
	if string(got2) != "other" {
		t.Fatalf("Get(5) = %q, want %q (drawn from the explicit conduit, not the bound one)", got2, "other")
	}
}
