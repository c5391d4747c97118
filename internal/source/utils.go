package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: количество переводов строк строго до off
	line, _ := slices.BinarySearch(lineIdx, off)
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath returns target relative to baseDir, or the normalized target
// itself when it lies outside baseDir.
func RelativePath(target, baseDir string) string {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return normalizePath(target)
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return normalizePath(target)
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget)
	}
	return normalizePath(rel)
}
