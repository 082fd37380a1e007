package tx

import "errors"

// ErrShortBuffer is returned by the wire decoder whenever a length
// prefix or fixed-width field would read past the end of the input.
var ErrShortBuffer = errors.New("tx: short buffer")

// ErrUnknownDataKind is returned by the codec and transcript routine on
// an out-of-range DataKind tag.
var ErrUnknownDataKind = errors.New("tx: unknown data kind")

// ErrUnknownFreezeDuration is returned when an EnergyPayload names a
// FreezeDuration tag paramset doesn't recognize.
var ErrUnknownFreezeDuration = errors.New("tx: unknown freeze duration")
