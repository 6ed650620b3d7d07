// Package fonts finds UI font files in the asset tree by loose name ("Inter", "inter regular").
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exts are the file extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// ErrNotFound is returned by Find when no font matches.
var ErrNotFound = errors.New("fonts: no matching font")

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	for _, ext := range Exts {
		s = strings.TrimSuffix(s, ext)
	}
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Find returns the full path of the font under dir whose relative path contains search
// (compared without case, spaces, dashes or underscores). An existing file path is returned as is.
// When several fonts match, one with "regular" in its path wins.
func Find(dir, search string) (string, error) {
	if search == "" {
		return "", ErrNotFound
	}
	if fi, err := os.Stat(search); err == nil && !fi.IsDir() && isFont(search) {
		return search, nil
	}
	norm := normalizeForMatch(search)
	list, err := ScanDir(dir)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, rel := range list {
		if strings.Contains(normalizeForMatch(rel), norm) {
			matches = append(matches, rel)
		}
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	best := matches[0]
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m), "regular") {
			best = m
			break
		}
	}
	return filepath.Join(dir, filepath.FromSlash(best)), nil
}
