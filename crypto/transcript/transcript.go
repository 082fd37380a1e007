// Package transcript implements the labelled, append-only Fiat-Shamir
// transcript the proof pipeline is built on. Every challenge scalar the
// core ever derives comes from here; the set and order of labelled
// appends is part of the consensus contract (see tx.AppendTransactionTranscript,
// the single routine both the builder and the verifier call).
//
// This generalizes the fixed byte-buffer context header the codebase's
// own uno transcript builder constructs (appendU8/appendU64/appendAddress)
// into a true running transcript: every append folds into a digest that
// ratchets forward on each challenge draw, so no two challenges are ever
// derived from the same transcript state.
package transcript

import (
	"encoding/binary"

	"lukechampine.com/blake3"

	"github.com/tos-network/terminos/crypto/curve"
)

// Transcript is a labelled Fiat-Shamir transcript.
type Transcript struct {
	state [32]byte
}

// New starts a transcript seeded with a domain-separation label. Every
// transcript the core constructs — transaction build, transaction
// verify, a standalone proof — must use a distinct label so transcripts
// for different protocols can never collide.
func New(domain string) *Transcript {
	t := &Transcript{}
	sum := blake3.Sum256([]byte("terminos/transcript/v1/" + domain))
	t.state = sum
	return t
}

func (t *Transcript) mix(label string, data []byte) {
	h := blake3.New(32, nil)
	h.Write(t.state[:])
	h.Write([]byte(label))
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	h.Write(lenBuf[:])
	h.Write(data)
	copy(t.state[:], h.Sum(nil))
}

// AppendMessage appends a labelled byte string.
func (t *Transcript) AppendMessage(label string, data []byte) {
	t.mix(label, data)
}

// AppendU8 appends a labelled single byte.
func (t *Transcript) AppendU8(label string, v uint8) {
	t.mix(label, []byte{v})
}

// AppendU64 appends a labelled big-endian u64, matching the canonical
// wire encoding so transcript and wire-format bytes never diverge.
func (t *Transcript) AppendU64(label string, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	t.mix(label, buf[:])
}

// AppendPoint appends a labelled compressed curve point.
func (t *Transcript) AppendPoint(label string, p *curve.Point) {
	t.mix(label, p.Bytes())
}

// ChallengeBytes draws n labelled challenge bytes and ratchets the
// transcript state forward so the same challenge can never be drawn twice.
func (t *Transcript) ChallengeBytes(label string, n int) []byte {
	h := blake3.New(n, nil)
	h.Write(t.state[:])
	h.Write([]byte(label))
	h.Write([]byte("challenge"))
	out := h.Sum(nil)
	t.mix(label, out)
	return out
}

// ChallengeScalar draws a labelled challenge scalar.
func (t *Transcript) ChallengeScalar(label string) *curve.Scalar {
	buf := t.challengeUniform(label)
	s := curve.NewScalar()
	s.SetUniformBytes(buf)
	return s
}

// challengeUniform draws 64 uniform bytes, the input width
// Scalar.SetUniformBytes and Element.SetUniformBytes require.
func (t *Transcript) challengeUniform(label string) []byte {
	h := blake3.New(64, nil)
	h.Write(t.state[:])
	h.Write([]byte(label))
	h.Write([]byte("challenge-uniform"))
	out := h.Sum(nil)
	t.mix(label, out)
	return out
}

// Clone returns an independent copy of the transcript's current state,
// used by package tx to fork the per-output, per-source-commitment and
// range-proof sub-transcripts without disturbing the caller's running state.
func (t *Transcript) Clone() *Transcript {
	c := &Transcript{}
	c.state = t.state
	return c
}
