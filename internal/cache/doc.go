// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache memoizes expensive, immutable renderer resources: decoded
// material textures shared by scene objects and compiled pass programs.
//
//	textures := cache.New[string, *texture.Texture](64)
//	tex, err := textures.GetOrLoad(path, func() (*texture.Texture, error) {
//	    return texture.Load(path)
//	})
//
// A failed load is not cached, so the next lookup retries it.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
