package rangeproof

import "github.com/tos-network/terminos/crypto/curve"

func scalarVector(n int, v *curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// powers returns (1, x, x^2, ..., x^{n-1}).
func powers(x *curve.Scalar, n int) []*curve.Scalar {
	out := make([]*curve.Scalar, n)
	out[0] = curve.ScalarOne()
	for i := 1; i < n; i++ {
		out[i] = curve.ScalarMul(out[i-1], x)
	}
	return out
}

func vecAdd(a, b []*curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarAdd(a[i], b[i])
	}
	return out
}

func vecSub(a, b []*curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarSub(a[i], b[i])
	}
	return out
}

func vecHadamard(a, b []*curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarMul(a[i], b[i])
	}
	return out
}

func vecScale(a []*curve.Scalar, s *curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarMul(a[i], s)
	}
	return out
}

func vecAddScalar(a []*curve.Scalar, s *curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarAdd(a[i], s)
	}
	return out
}

func innerProduct(a, b []*curve.Scalar) *curve.Scalar {
	acc := curve.ScalarZero()
	for i := range a {
		acc = curve.ScalarAdd(acc, curve.ScalarMul(a[i], b[i]))
	}
	return acc
}

func vecInvert(a []*curve.Scalar) []*curve.Scalar {
	out := make([]*curve.Scalar, len(a))
	for i := range a {
		out[i] = curve.ScalarInvert(a[i])
	}
	return out
}

// bitsLE returns the n-bit little-endian bit decomposition of v as scalars.
func bitsLE(v uint64, n int) []*curve.Scalar {
	out := make([]*curve.Scalar, n)
	for i := 0; i < n; i++ {
		bit := (v >> uint(i)) & 1
		out[i] = curve.ScalarFromUint64(bit)
	}
	return out
}
