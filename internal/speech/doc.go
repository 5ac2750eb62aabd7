// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech streams live speech-to-text transcripts into the input field.
package speech
