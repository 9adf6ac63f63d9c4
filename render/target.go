// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/vidview/internal/gpu"

// Target is a view the renderer draws into: it reports its drawable size
// and hands out one Drawable per display refresh.
type Target = gpu.Target

// Drawable is the renderable surface for one display refresh.
type Drawable = gpu.Drawable
