// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the remote generative AI service.
package genai
