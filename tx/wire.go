package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/tos-network/terminos/common"
)

// writer accumulates the canonical, deterministic encoding spec §6
// requires: fixed-width big-endian integers, length-prefixed variable
// sequences, points in compressed form. Generalizes the codebase's own
// appendU8/appendU64/appendAddress transcript-context helpers into a
// reusable wire encoder shared by serialization and hashing.
type writer struct{ buf []byte }

func newWriter() *writer { return &writer{buf: make([]byte, 0, 256)} }

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) address(a common.Address) { w.buf = append(w.buf, a[:]...) }
func (w *writer) fixedBytes(b []byte)       { w.buf = append(w.buf, b...) }
func (w *writer) varBytes(b []byte) {
	w.u64(uint64(len(b)))
	w.buf = append(w.buf, b...)
}
func (w *writer) bytes() []byte { return w.buf }

// reader consumes a buffer produced by writer, failing closed on any
// length mismatch rather than reading past the end.
type reader struct {
	buf []byte
	pos int
}

func newReader(b []byte) *reader { return &reader{buf: b} }

func (r *reader) u8() (uint8, error) {
	if r.pos+1 > len(r.buf) {
		return 0, ErrShortBuffer
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) address() (common.Address, error) {
	if r.pos+common.AddressLength > len(r.buf) {
		return common.Address{}, ErrShortBuffer
	}
	var a common.Address
	copy(a[:], r.buf[r.pos:r.pos+common.AddressLength])
	r.pos += common.AddressLength
	return a, nil
}

func (r *reader) fixedBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, ErrShortBuffer
	}
	out := append([]byte(nil), r.buf[r.pos:r.pos+n]...)
	r.pos += n
	return out, nil
}

func (r *reader) varBytes() ([]byte, error) {
	n, err := r.u64()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, fmt.Errorf("tx: varBytes length %d exceeds remaining buffer: %w", n, ErrShortBuffer)
	}
	return r.fixedBytes(int(n))
}

func (r *reader) done() bool { return r.pos == len(r.buf) }
