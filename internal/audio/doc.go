// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio decodes PCM speech payloads and plays them on the output device.
package audio
