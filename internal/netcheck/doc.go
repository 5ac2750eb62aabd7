// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package netcheck detects network availability before remote calls.
package netcheck
