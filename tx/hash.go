package tx

import "lukechampine.com/blake3"

// Hash returns the Blake3 hash of the transaction's signable canonical
// encoding — the digest the outer Schnorr signature is computed over
// and the value used as a transaction's on-chain identifier.
func (t *Transaction) Hash() [32]byte {
	return blake3.Sum256(t.SigningBytes())
}
