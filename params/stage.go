// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage selects which pipeline buffer is shown. Stages are ordered: a stage
// includes every stylization step of the stages below it.
type Stage int

const (
	// StageVertexColors shows plain shading without any stylization.
	StageVertexColors Stage = iota

	// StageControlColors shows the control buffer.
	StageControlColors

	// StageHandTremors shows shading with hand tremor enabled.
	StageHandTremors

	// StagePigment shows shading with tremor and pigment effects.
	StagePigment

	// StageGaussianBlur shows the Gaussian-blurred color buffer.
	StageGaussianBlur

	// StageBilateralBlur shows the bleed buffer.
	StageBilateralBlur

	// StageSurface shows the paper surface buffer.
	StageSurface

	// StageFinal shows the stylized image.
	StageFinal
)

// StageCount is the number of stages.
const StageCount = int(StageFinal) + 1

var stageNames = [StageCount]string{
	"vertex_colors",
	"control_colors",
	"hand_tremors",
	"pigment",
	"gaussian_blur",
	"bilateral_blur",
	"surface",
	"final",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= StageCount {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid reports whether s names a stage.
func (s Stage) Valid() bool {
	return s >= 0 && int(s) < StageCount
}

// ParseStage accepts a stage name or its number.
func ParseStage(s string) (Stage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range stageNames {
		if s == name {
			return Stage(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Stage(n).Valid() {
		return 0, fmt.Errorf("%w: stage %q", ErrInvalidValue, s)
	}
	return Stage(n), nil
}
