// Package classifier implements the pure safety classifier of spec
// §4.3: a deterministic, ordered rule chain mapping a path (plus
// optional size/mtime metadata) to one of three SafetyLevel values.
//
// It never raises: any rule that needs metadata the caller didn't
// supply is treated as a non-match rather than an error, so the chain
// always falls through to the ConfirmRequired default (spec §7:
// "Classifier never raises; it defaults to ConfirmRequired on
// unreadable metadata").
//
// The category/extension table layout is grounded on the teacher's
// internal/scanner/categories.go and internal/scanner/largefile.go
// (grouped, lowercase, dot-prefixed extension sets keyed by theme);
// the exact membership of each set is spec-owned, not teacher-owned.
package classifier

import (
	"strings"
	"time"

	"disksight/internal/model"
)

// protectedSegments are path segments that make a shallow path
// Protected (spec §4.3 rule 1).
var protectedSegments = map[string]struct{}{
	"windows":                    {},
	"system32":                   {},
	"syswow64":                   {},
	"program files":              {},
	"program files (x86)":        {},
	"programdata":                {},
	"users":                      {},
	"documents":                  {},
	"pictures":                   {},
	"videos":                     {},
	"music":                      {},
	"downloads":                  {},
	"desktop":                    {},
	"appdata":                    {},
	"boot":                       {},
	"recovery":                   {},
	"system volume information":  {},
}

// autoDeleteNames are exact (lowercased) basenames that are always
// safe to auto-delete (spec §4.3 rule 2).
var autoDeleteNames = map[string]struct{}{
	"thumbs.db":          {},
	"desktop.ini":        {},
	"ehthumbs.db":        {},
	"ehthumbs_vista.db":  {},
	".ds_store":          {},
	"npm-debug.log":      {},
	"yarn-error.log":     {},
	"yarn-debug.log":     {},
	".npmrc":             {},
	".yarnrc":            {},
	"debug.log":          {},
	"error.log":          {},
	"access.log":         {},
}

// autoDeleteFolders are lowercased directory basenames that are always
// safe to auto-delete (spec §4.3 rule 3): cache/build/ide/vcs/temp/log
// families, mirroring the grouping style of the teacher's category
// tables.
var autoDeleteFolders = map[string]struct{}{
	".cache":          {},
	"__pycache__":     {},
	".pytest_cache":   {},
	".mypy_cache":     {},
	"node_modules":    {},
	".npm":            {},
	".yarn":           {},
	".pnpm":           {},
	"dist":            {},
	"build":           {},
	"out":             {},
	"target":          {},
	".next":           {},
	".nuxt":           {},
	".turbo":          {},
	".idea":           {},
	".vscode":         {},
	".vs":             {},
	".git":            {},
	".svn":            {},
	".hg":             {},
	"tmp":             {},
	"temp":            {},
	".tmp":            {},
	".temp":           {},
	"logs":            {},
	"log":             {},
}

// autoDeleteExtensions are lowercased, dot-prefixed extensions that
// are always safe to auto-delete (spec §4.3 rule 4): temp/log/cache/
// build-artifact/lockfile families.
var autoDeleteExtensions = map[string]struct{}{
	".tmp":   {},
	".temp":  {},
	".log":   {},
	".bak":   {},
	".old":   {},
	".cache": {},
	".lock":  {},
	".pid":   {},
	".swp":   {},
	".swo":   {},
	".~":     {},
	".crdownload": {},
	".part":  {},
	".o":     {},
	".obj":   {},
	".pyc":   {},
	".class": {},
}

// importantExtensions are lowercased, dot-prefixed extensions that
// should never be deleted without confirmation (spec §4.3 rule 5):
// documents, media, code, config, archives, databases, executables.
var importantExtensions = map[string]struct{}{
	// documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {}, ".odt": {}, ".txt": {}, ".md": {},
	// media
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".heic": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".mp3": {}, ".wav": {}, ".flac": {},
	// code
	".go": {}, ".rs": {}, ".py": {}, ".js": {}, ".ts": {}, ".java": {}, ".c": {}, ".cpp": {}, ".h": {}, ".rb": {}, ".swift": {}, ".kt": {},
	// config
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".env": {},
	// archives
	".zip": {}, ".tar": {}, ".gz": {}, ".rar": {}, ".7z": {}, ".xz": {},
	// databases
	".db": {}, ".sqlite": {}, ".sql": {}, ".mdb": {},
	// executables
	".exe": {}, ".msi": {}, ".dmg": {}, ".app": {}, ".sh": {}, ".bat": {},
}

const (
	largeOldSizeThreshold = 100 * 1024 * 1024 // 100 MiB
	largeOldAgeThreshold  = 30 * 24 * time.Hour
)

// Metadata carries the optional size/mtime information used by the
// large-old heuristic (spec §4.3 rule 6). Zero value means "unknown":
// the rule is skipped rather than guessed at.
type Metadata struct {
	SizeBytes uint64
	ModTime   time.Time
	Known     bool
}

// Classify maps path to a SafetyLevel following the spec's seven
// ordered rules, first match wins. isDir distinguishes folder-name
// rules from extension rules; meta is optional (pass the zero value
// when unavailable).
func Classify(path string, isDir bool, meta Metadata) model.SafetyLevel {
	lower := strings.ToLower(path)
	segments := splitSegments(lower)

	if len(segments) <= 3 {
		for _, seg := range segments {
			if _, ok := protectedSegments[seg]; ok {
				return model.Protected
			}
		}
	}

	base := strings.ToLower(baseName(path))
	if _, ok := autoDeleteNames[base]; ok {
		return model.AutoDelete
	}

	if isDir {
		if _, ok := autoDeleteFolders[base]; ok {
			return model.AutoDelete
		}
	}

	ext := extensionOf(base)
	if !isDir {
		if _, ok := autoDeleteExtensions[ext]; ok {
			return model.AutoDelete
		}
		if _, ok := importantExtensions[ext]; ok {
			return model.ConfirmRequired
		}
	}

	if !isDir && meta.Known {
		age := time.Since(meta.ModTime)
		if meta.SizeBytes > largeOldSizeThreshold && age > largeOldAgeThreshold {
			return model.ConfirmRequired
		}
	}

	return model.ConfirmRequired
}

// splitSegments splits a path on both '/' and '\', dropping empty
// segments and a leading drive letter (`c:`) so `C:\Windows\System32\
// cmd.exe` counts as 3 segments, matching the spec's own worked
// example, not 4.
func splitSegments(path string) []string {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if len(f) == 2 && f[1] == ':' {
			continue
		}
		out = append(out, f)
	}
	return out
}

func baseName(path string) string {
	path = strings.TrimRight(path, "/\\")
	idx := strings.LastIndexAny(path, "/\\")
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}

func extensionOf(lowerBase string) string {
	idx := strings.LastIndexByte(lowerBase, '.')
	if idx <= 0 {
		return ""
	}
	return lowerBase[idx:]
}
