// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package normalize implements deterministic string normalization and
// character n-gram tokenization for the fuzzy resolver's vectorizer.
//
// The same normalization must produce identical output at index-build time
// and at query time, on any platform, for the TF-IDF vectors to compare
// meaningfully across runs.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/catalogerr"
)

const gramSize = 3

var allowedRunes = func(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == ' ':
		return true
	default:
		return false
	}
}

// transliterator decomposes accented characters and drops combining marks,
// yielding the closest ASCII equivalent. Built once and reused: norm.NFD and
// runes.Remove hold no per-call state.
var transliterator = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Display returns the display-normalized form of s: disallowed characters
// stripped, whitespace collapsed to single spaces and trimmed, lowercased,
// and transliterated to ASCII. Returns catalogerr.ErrInvalidInput if s
// contains invalid UTF-8.
func Display(s string) (string, error) {
	if !isValidText(s) {
		return "", catalogerr.New(catalogerr.KindInvalidInput, "normalize.Display", nil)
	}

	ascii, err := transform.String(transliterator, s)
	if err != nil {
		ascii = s
	}

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if allowedRunes(r) {
			b.WriteRune(r)
		}
	}

	return strings.ToLower(collapseSpaces(b.String())), nil
}

// TokenKey returns the token-key form of s: the Display form with all
// spaces removed. This is the form fed to the n-gram vectorizer.
func TokenKey(s string) (string, error) {
	disp, err := Display(s)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(disp, " ", ""), nil
}

// collapseSpaces collapses runs of spaces to one and trims leading/trailing
// spaces.
func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func isValidText(s string) bool {
	for _, r := range s {
		if r == unicode.ReplacementChar {
			return false
		}
	}
	return true
}

// NGrams extracts character 3-grams from a token-key string, padded with
// one leading and one trailing space so edge characters appear in multiple
// grams. Both build and query time must use this same padding and gram
// size for vectors to compare meaningfully.
func NGrams(tokenKey string) []string {
	if tokenKey == "" {
		return nil
	}

	padded := " " + tokenKey + " "
	runes := []rune(padded)
	if len(runes) < gramSize {
		return []string{string(runes)}
	}

	grams := make([]string, 0, len(runes)-gramSize+1)
	for i := 0; i+gramSize <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+gramSize]))
	}
	return grams
}
