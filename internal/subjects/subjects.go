// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package subjects holds the static BECE subject catalog and the exam year
// range offered for past-paper generation.
package subjects

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Subject identifies one BECE examination subject. The zero value is not a
// valid subject; use All or Lookup.
type Subject struct {
	// ID is the stable lower-case key used in prompts, filenames and config.
	ID string
	// Name is the official subject title shown in the picker.
	Name string
	// Core is true for the compulsory subjects every candidate sits.
	Core bool
}

// catalog mirrors the WAEC BECE subject register. Order is presentation
// order: core subjects first.
var catalog = []Subject{
	{ID: "english", Name: "English Language", Core: true},
	{ID: "mathematics", Name: "Mathematics", Core: true},
	{ID: "science", Name: "Integrated Science", Core: true},
	{ID: "social-studies", Name: "Social Studies", Core: true},
	{ID: "rme", Name: "Religious and Moral Education", Core: true},
	{ID: "ghanaian-language", Name: "Ghanaian Language and Culture"},
	{ID: "french", Name: "French"},
	{ID: "ict", Name: "Information and Communications Technology"},
	{ID: "bdt", Name: "Basic Design and Technology"},
	{ID: "career-tech", Name: "Career Technology"},
	{ID: "creative-arts", Name: "Creative Arts and Design"},
}

var byID = func() map[string]Subject {
	m := make(map[string]Subject, len(catalog))
	for _, s := range catalog {
		m[s.ID] = s
	}
	return m
}()

// All returns the full catalog in presentation order.
func All() []Subject {
	out := make([]Subject, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a subject ID.
func Lookup(id string) (Subject, bool) {
	s, ok := byID[id]
	return s, ok
}

var titler = cases.Title(language.English)

// DisplayTitle renders free-form subject text in title case for headings and
// export filenames, e.g. "integrated science" -> "Integrated Science".
func DisplayTitle(raw string) string {
	return titler.String(raw)
}

// Exam year range. The BECE was first sat in 1990; new papers become
// available the year after the sitting.
const (
	FirstExamYear  = 1990
	LatestExamYear = 2025
)

// Years returns the selectable exam years, most recent first.
func Years() []string {
	years := make([]string, 0, LatestExamYear-FirstExamYear+1)
	for y := LatestExamYear; y >= FirstExamYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// ValidYear reports whether raw parses as a year inside the exam range.
func ValidYear(raw string) bool {
	y, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return y >= FirstExamYear && y <= LatestExamYear
}
