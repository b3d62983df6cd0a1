// Package fixedpoint implements the two integer scales used by the reward engine:
// whole-number percentages and 27-decimal "ray" values.
//
// Every conversion is multiply-then-divide with truncation toward zero. Division
// by zero and results wider than 256 bits panic; callers treat both as
// programming errors.
package fixedpoint

import (
	sdkmath "cosmossdk.io/math"
)

const (
	// RayDecimals is the number of decimal digits of the ray scale.
	RayDecimals = 27
	// PercentBase is the denominator of the percentage scale.
	PercentBase = 100
)

var (
	// Ray is 1.0 in the ray scale.
	Ray = sdkmath.NewIntWithDecimal(1, RayDecimals)

	percentBase = sdkmath.NewInt(PercentBase)
)

// MulDiv returns a*b/c truncated toward zero.
func MulDiv(a, b, c sdkmath.Int) sdkmath.Int {
	return a.Mul(b).Quo(c)
}

// RayMul multiplies two ray values (or an integer by a ray value).
func RayMul(a, b sdkmath.Int) sdkmath.Int {
	return MulDiv(a, b, Ray)
}

// RayDiv divides a by the ray value b.
func RayDiv(a, b sdkmath.Int) sdkmath.Int {
	return MulDiv(a, Ray, b)
}

// RayPow raises the ray value x to the integer power n by repeated squaring.
func RayPow(x sdkmath.Int, n uint64) sdkmath.Int {
	z := Ray
	if n%2 != 0 {
		z = x
	}

	for n /= 2; n != 0; n /= 2 {
		x = RayMul(x, x)
		if n%2 != 0 {
			z = RayMul(z, x)
		}
	}

	return z
}

// PercentToRay converts a whole-number percentage into a ray fraction,
// e.g. 4 -> 0.04 * 1e27.
func PercentToRay(percent uint64) sdkmath.Int {
	return MulDiv(sdkmath.NewIntFromUint64(percent), Ray, percentBase)
}

// ApplyPercent returns v * percent / 100.
func ApplyPercent(v sdkmath.Int, percent uint64) sdkmath.Int {
	return MulDiv(v, sdkmath.NewIntFromUint64(percent), percentBase)
}
