package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipeviz/pipeviz/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", `stages:
  - build
  - test

build:app:
  stage: build
  script: make
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !tree.IsMapping() {
		t.Fatal("Load() did not return a mapping")
	}

	keys := tree.Keys()
	if len(keys) != 2 || keys[0] != "stages" || keys[1] != "build:app" {
		t.Errorf("Keys() = %v, want [stages build:app]", keys)
	}

	stages := tree.Get("stages")
	if !stages.IsSequence() || stages.Len() != 2 {
		t.Fatalf("stages = kind %v len %d", stages.Kind(), stages.Len())
	}
	if s, _ := stages.Items()[0].Str(); s != "build" {
		t.Errorf("stages[0] = %q, want build", s)
	}

	if s, _ := tree.Get("build:app").Get("stage").Str(); s != "build" {
		t.Errorf("build:app.stage = %q, want build", s)
	}
}

func TestLoadKeyOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", `zeta: {}
alpha: {}
mid: {}
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	keys := tree.Keys()
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestLoadMergeKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", `.base: &base
  stage: build
  retry: 2

job:
  <<: *base
  script: make
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	job := tree.Get("job")
	if job.Has("<<") {
		t.Error("merge key left as a literal entry instead of being folded in")
	}
	if s, _ := job.Get("stage").Str(); s != "build" {
		t.Errorf("job.stage = %q, want build (inherited through anchor)", s)
	}
	if got := job.Get("retry").ScalarValue(); got != 2 {
		t.Errorf("job.retry = %v, want 2", got)
	}
}

func TestLoadMergeKeyExplicitWins(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", `.base: &base
  stage: build

job:
  stage: deploy
  <<: *base
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s, _ := tree.Get("job").Get("stage").Str(); s != "deploy" {
		t.Errorf("job.stage = %q, want deploy (explicit key wins over merge)", s)
	}
}

func TestLoadMergeKeySequence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", `.a: &a
  stage: build
.b: &b
  stage: deploy
  retry: 1

job:
  <<: [*a, *b]
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	job := tree.Get("job")
	// Earlier sources take precedence in a merge sequence.
	if s, _ := job.Get("stage").Str(); s != "build" {
		t.Errorf("job.stage = %q, want build", s)
	}
	if got := job.Get("retry").ScalarValue(); got != 1 {
		t.Errorf("job.retry = %v, want 1", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yml", "stages: [build\n  - broken")

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeConfigParse) {
		t.Errorf("Load(invalid) = %v, want CONFIG_PARSE", err)
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.yml", "")

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("Load(empty) error: %v", err)
	}
	if !tree.IsAbsent() {
		t.Errorf("Load(empty) kind = %v, want absent", tree.Kind())
	}
}
