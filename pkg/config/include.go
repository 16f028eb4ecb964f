package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pipeviz/pipeviz/pkg/errors"
)

// Warning describes a non-fatal condition encountered during include
// resolution, e.g. an unsupported include kind. Warnings accumulate and are
// reported alongside successful output; they never abort resolution.
type Warning struct {
	File    string // file whose include directive triggered the warning
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// unsupportedIncludeKinds are include kinds that require network or project
// context and are skipped with a warning instead of resolved.
var unsupportedIncludeKinds = []string{"project", "remote", "template"}

// Resolve loads the configuration at rootPath and recursively merges all
// local includes into one tree.
//
// Includes are merged in declared order; each file's own content is merged
// last, so local definitions always override what they include. Sequence
// keys (e.g. stages) are concatenated with first-seen duplicates removed;
// every other key is replaced whole by the later file.
//
// A local include whose canonical path is already on the current resolution
// chain is a fatal CIRCULAR_INCLUDE error naming the full chain. Unsupported
// include kinds (project, remote, template) and missing include files are
// reported as warnings and skipped.
func Resolve(rootPath string) (Value, []Warning, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return Value{}, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot resolve %s", rootPath)
	}
	abs = filepath.Clean(abs)

	r := &resolver{rootDir: filepath.Dir(abs)}
	tree, err := r.resolveFile(abs, []string{abs})
	if err != nil {
		return Value{}, r.warnings, err
	}
	return tree, r.warnings, nil
}

// resolver carries the warning side channel through the recursion. The
// visited chain is passed explicitly so each call is reentrant and testable
// in isolation.
type resolver struct {
	rootDir  string
	warnings []Warning
}

func (r *resolver) warnf(file, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{File: file, Message: fmt.Sprintf(format, args...)})
}

// resolveFile loads path, resolves its includes, and returns the merged tree.
// chain holds the canonical paths from the root file down to path itself.
func (r *resolver) resolveFile(path string, chain []string) (Value, error) {
	tree, err := Load(path)
	if err != nil {
		return Value{}, err
	}
	if !tree.IsMapping() {
		// Empty or scalar documents carry no includes. The model builder
		// rejects non-mapping roots later.
		return tree, nil
	}

	includes := tree.Get("include")
	tree.Delete("include")
	if includes.IsAbsent() {
		return tree, nil
	}

	merged := Mapping()
	for _, entry := range normalizeIncludes(includes) {
		local, ok := r.localPath(path, entry)
		if !ok {
			continue
		}

		if slices.Contains(chain, local) {
			return Value{}, errors.New(errors.ErrCodeCircularInclude,
				"circular include: %s", formatChain(chain, local))
		}

		sub, err := r.resolveFile(local, append(chain, local))
		if err != nil {
			if errors.Is(err, errors.ErrCodeFileNotFound) {
				r.warnf(path, "include file not found: %s", local)
				continue
			}
			return Value{}, err
		}
		if sub.IsMapping() {
			merged = mergeTrees(merged, sub)
		}
	}

	// The including file is merged last so its definitions win.
	return mergeTrees(merged, tree), nil
}

// normalizeIncludes flattens the include directive into a list of entries.
// A scalar or single mapping is treated as a one-element list.
func normalizeIncludes(v Value) []Value {
	if v.IsSequence() {
		return v.Items()
	}
	return []Value{v}
}

// localPath classifies one include entry and resolves local paths.
// The second result is false when the entry is skipped (unsupported kind,
// unrecognized shape), in which case a warning has been recorded.
func (r *resolver) localPath(declaringFile string, entry Value) (string, bool) {
	var rel string
	switch {
	case entry.IsScalar():
		s, ok := entry.Str()
		if !ok {
			r.warnf(declaringFile, "skipping non-string include entry")
			return "", false
		}
		rel = s
	case entry.IsMapping():
		if local, ok := entry.Get("local").Str(); ok {
			rel = local
			break
		}
		for _, kind := range unsupportedIncludeKinds {
			if entry.Has(kind) {
				r.warnf(declaringFile, "skipping unsupported %s include", kind)
				return "", false
			}
		}
		r.warnf(declaringFile, "skipping unrecognized include entry")
		return "", false
	default:
		r.warnf(declaringFile, "skipping unrecognized include entry")
		return "", false
	}

	// Root-anchored paths resolve against the root config's directory,
	// everything else against the directory of the declaring file.
	base := filepath.Dir(declaringFile)
	if strings.HasPrefix(rel, "/") {
		base = r.rootDir
		rel = strings.TrimPrefix(rel, "/")
	}
	return filepath.Clean(filepath.Join(base, rel)), true
}

// mergeTrees merges src into dst and returns the result: src wins for every
// key except sequences, which are concatenated with first-seen duplicates
// removed. Job definitions sharing a name are replaced whole, never
// field-merged.
func mergeTrees(dst, src Value) Value {
	out := Mapping()
	for _, k := range dst.Keys() {
		out.Set(k, dst.Get(k))
	}
	for _, k := range src.Keys() {
		existing := out.Get(k)
		incoming := src.Get(k)
		if existing.IsSequence() && incoming.IsSequence() {
			out.Set(k, mergeSequences(existing, incoming))
			continue
		}
		out.Set(k, incoming)
	}
	return out
}

// mergeSequences concatenates b onto a, dropping scalar items already present.
func mergeSequences(a, b Value) Value {
	out := Sequence(a.Items()...)
	for _, item := range b.Items() {
		if item.IsScalar() && containsScalar(out.Items(), item) {
			continue
		}
		out.Append(item)
	}
	return out
}

func containsScalar(items []Value, want Value) bool {
	for _, item := range items {
		if item.IsScalar() && item.ScalarValue() == want.ScalarValue() {
			return true
		}
	}
	return false
}

// formatChain renders the resolution chain for a circular-include error,
// ending with the path that closed the cycle.
func formatChain(chain []string, repeat string) string {
	return strings.Join(append(slices.Clone(chain), repeat), " -> ")
}
