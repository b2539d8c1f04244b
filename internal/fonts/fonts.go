// Package fonts finds font files for the overlay and console by family name.
package fonts

import (
	"os"
	"path/filepath"
	"strings"
)

// Exts are the extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// Dir returns the font directory under an asset root.
func Dir(assetRoot string) string {
	return filepath.Join(assetRoot, "fonts")
}

// ScanDir returns the relative paths of all font files under dir (e.g.
// "Inter/Inter-Regular.ttf"), with forward slashes. A missing dir yields
// no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
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
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// SearchCandidates returns the search terms to try in order: the name as
// given, then its first path segment, the part before the first hyphen and
// the name without its extension.
// "Inter-Regular.ttf" -> ["Inter-Regular.ttf", "Inter", "Inter-Regular"].
func SearchCandidates(pathOrName string) []string {
	seen := map[string]bool{pathOrName: true}
	candidates := []string{pathOrName}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			candidates = append(candidates, s)
		}
	}
	if i := strings.IndexAny(pathOrName, "/\\"); i > 0 {
		add(pathOrName[:i])
	}
	if i := strings.Index(pathOrName, "-"); i > 0 {
		add(pathOrName[:i])
	}
	for _, ext := range Exts {
		if strings.HasSuffix(strings.ToLower(pathOrName), ext) {
			add(pathOrName[:len(pathOrName)-len(ext)])
			break
		}
	}
	return candidates
}

// Find searches dir for a font matching search, trying each of
// SearchCandidates in turn. When several files match, one whose path
// contains "regular" wins. It returns the full path or os.ErrNotExist.
func Find(dir, search string) (string, error) {
	list, err := ScanDir(dir)
	if err != nil {
		return "", err
	}
	for _, term := range SearchCandidates(search) {
		norm := normalizeForMatch(term)
		if norm == "" {
			continue
		}
		var matches []string
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				matches = append(matches, rel)
			}
		}
		if len(matches) == 0 {
			continue
		}
		pick := matches[0]
		for _, m := range matches {
			if strings.Contains(strings.ToLower(m), "regular") {
				pick = m
				break
			}
		}
		return filepath.Join(dir, filepath.FromSlash(pick)), nil
	}
	return "", os.ErrNotExist
}
