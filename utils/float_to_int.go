// SPDX-License-Identifier: EPL-2.0

package utils

// ClampUnit limits x to [-1, 1]. NaN maps to 0.
func ClampUnit(x float32) float32 {
	if x != x {
		return 0
	}

	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}

	return x
}

// Float32ToInt16 clamps x to [-1, 1] and scales it into the signed 16-bit
// range. Negative values are scaled by 32768 and positive values by 32767,
// matching the asymmetric [-32768, 32767] range. The result is truncated.
func Float32ToInt16(x float32) int16 {
	x = ClampUnit(x)

	if x < 0 {
		return int16(x * 32768.0)
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768.0
	}

	return float32(v) / 32767.0
}

// IntToFloat32 normalizes a signed integer sample of the given bit depth into
// [-1, 1]. 8-bit samples are treated as unsigned, as stored by RIFF/WAVE.
func IntToFloat32(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v-128) / 128.0
	case 16:
		return Int16ToFloat32(int16(v))
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(int32(v)) / 2147483648.0)
	default:
		return float32(v) / 32768.0
	}
}
