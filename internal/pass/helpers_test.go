// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// nearVec3 compares component-wise with an absolute tolerance.
func nearVec3(a, b mgl32.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

// nearVec4 compares component-wise with an absolute tolerance.
func nearVec4(a, b mgl32.Vec4, eps float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}
