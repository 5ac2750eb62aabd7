// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the Lip Gloss styling system for bece-tui:
// adaptive colors for light and dark terminals and the Theme struct that
// bundles every styled component the views use.
package styles
