// Package pipeline extracts a normalized job/stage model from a merged
// GitLab CI configuration tree and derives the two graph views rendered by
// pipeviz: the job dependency graph and the stage grouping graph.
package pipeline

import (
	"slices"

	"github.com/pipeviz/pipeviz/pkg/config"
	"github.com/pipeviz/pipeviz/pkg/errors"
)

// DefaultStage is assigned to jobs that declare no stage, mirroring GitLab's
// own default.
const DefaultStage = "test"

// reservedKeys are top-level configuration keys that never describe jobs.
var reservedKeys = map[string]bool{
	"stages":        true,
	"variables":     true,
	"include":       true,
	"default":       true,
	"workflow":      true,
	"before_script": true,
	"after_script":  true,
	"cache":         true,
	"image":         true,
	"services":      true,
}

// JobSpec is one job extracted from the configuration.
type JobSpec struct {
	Name  string   // unique job name (the top-level key)
	Stage string   // stage name, DefaultStage when unspecified
	Needs []string // explicit dependencies, deduplicated, declaration order
}

// Model is the resolved, merged pipeline configuration. It is built once per
// invocation and never mutated afterwards; graph views are derived fresh from
// it on each render.
type Model struct {
	// Stages lists stage names in declaration order. Stages referenced by a
	// job but missing from the stages key are appended in discovery order,
	// so Stages always covers every job.
	Stages []string

	// JobNames lists job names in discovery order. Rendering iterates this
	// instead of the Jobs map to stay deterministic.
	JobNames []string

	// Jobs maps job name to its spec.
	Jobs map[string]JobSpec
}

// Build converts a merged configuration tree into a Model.
//
// Hidden jobs (keys starting with "."), reserved keys, and non-mapping values
// are excluded from the job set. A job's needs accepts both the short form
// (a sequence of job names) and the extended form (mappings with a job
// field); both normalize into a plain name list. Returns an error with code
// MODEL_BUILD only when the tree is not a mapping at the top level.
func Build(tree config.Value) (*Model, error) {
	if !tree.IsMapping() {
		return nil, errors.New(errors.ErrCodeModelBuild, "configuration is not a mapping at the top level")
	}

	m := &Model{Jobs: map[string]JobSpec{}}
	m.Stages = declaredStages(tree.Get("stages"))

	for _, name := range tree.Keys() {
		if reservedKeys[name] || len(name) == 0 || name[0] == '.' {
			continue
		}
		spec := tree.Get(name)
		if !spec.IsMapping() {
			continue
		}

		job := JobSpec{
			Name:  name,
			Stage: jobStage(spec),
			Needs: jobNeeds(spec),
		}
		m.Jobs[name] = job
		m.JobNames = append(m.JobNames, name)

		if !slices.Contains(m.Stages, job.Stage) {
			m.Stages = append(m.Stages, job.Stage)
		}
	}

	return m, nil
}

// declaredStages reads the stages key: a sequence of string scalars, with
// duplicates removed in first-seen order. Any other shape yields no stages;
// they are back-filled from the jobs.
func declaredStages(v config.Value) []string {
	if !v.IsSequence() {
		return nil
	}
	var stages []string
	for _, item := range v.Items() {
		s, ok := item.Str()
		if !ok || slices.Contains(stages, s) {
			continue
		}
		stages = append(stages, s)
	}
	return stages
}

// jobStage reads a job's stage, defaulting when missing or not a string.
func jobStage(spec config.Value) string {
	if s, ok := spec.Get("stage").Str(); ok {
		return s
	}
	return DefaultStage
}

// jobNeeds normalizes a job's needs into a deduplicated name list.
// Accepted entry shapes: a bare job name, or a mapping with a job field.
// A missing or malformed needs key is an empty list, never an error.
func jobNeeds(spec config.Value) []string {
	needs := spec.Get("needs")
	if !needs.IsSequence() {
		return nil
	}
	var names []string
	for _, entry := range needs.Items() {
		var name string
		if s, ok := entry.Str(); ok {
			name = s
		} else if s, ok := entry.Get("job").Str(); ok {
			name = s
		} else {
			continue
		}
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}
