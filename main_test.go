package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const misplacedAPI = `class UsersAPI < Grape::API
  namespace :users do
    desc 'List users'
    get do
    end
  end
end
`

const cleanAPI = `class StatusAPI < Grape::API
  desc 'Health check'

  get :ping do
  end
end
`

func createSampleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "app/api/users.rb", misplacedAPI)
	writeTestFile(t, dir, "app/api/status.rb", cleanAPI)
	writeTestFile(t, dir, "README.md", "# sample\n")
	return dir
}

func TestRunBasic(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--no-color", dir}, &stdout, &stderr)
	if !errors.Is(err, errOffenses) {
		t.Fatalf("run: err = %v, want errOffenses\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	want := filepath.Join(dir, "app/api/users.rb") + ":3:5: C: [Correctable] Grape/MissingDesc: `desc` must not be placed within a block."
	if !strings.Contains(out, want) {
		t.Errorf("missing offense line %q in:\n%s", want, out)
	}
	if !strings.Contains(out, "2 files inspected, 1 offense detected") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestRunClean(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "status.rb", cleanAPI)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--no-color", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if got, want := stdout.String(), "1 file inspected, no offenses detected\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunAutocorrect(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{dir, "-a", "--no-color"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	if !strings.Contains(stdout.String(), "[Corrected]") {
		t.Errorf("expected corrected offense:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "1 corrected") {
		t.Errorf("expected corrected count:\n%s", stdout.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "app/api/users.rb"))
	if err != nil {
		t.Fatal(err)
	}
	want := `class UsersAPI < Grape::API
  desc 'List users'

  namespace :users do
    get do
    end
  end
end
`
	if string(data) != want {
		t.Errorf("users.rb:\n%s\nwant:\n%s", data, want)
	}

	data, err = os.ReadFile(filepath.Join(dir, "app/api/status.rb"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != cleanAPI {
		t.Error("clean file should be left untouched")
	}
}

func TestRunToon(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-f", "toon", dir}, &stdout, &stderr)
	if !errors.Is(err, errOffenses) {
		t.Fatalf("run: err = %v, want errOffenses", err)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "root: "+filepath.Base(dir)) {
		t.Errorf("missing root header:\n%s", out)
	}
	if !strings.Contains(out, "files[2]{path,offenses,corrected}:") {
		t.Errorf("expected 2 files:\n%s", out)
	}
	if !strings.Contains(out, "offenses[1]{file,line,column,cop,kind,message,status}:") {
		t.Errorf("expected 1 offense:\n%s", out)
	}
	if !strings.Contains(out, ",3,5,Grape/MissingDesc,misplaced,") {
		t.Errorf("offense row missing:\n%s", out)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--format", "json", dir}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "grapelint ") {
		t.Errorf("unexpected version output: %q", stdout.String())
	}
}

func TestRunNoFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "README.md", "# nothing\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for directory with no Ruby files")
	}
	if !strings.Contains(err.Error(), "no Ruby files") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunSingleFile(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	path := filepath.Join(dir, "app/api/users.rb")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--no-color", path}, &stdout, &stderr)
	if !errors.Is(err, errOffenses) {
		t.Fatalf("run: err = %v, want errOffenses", err)
	}
	if !strings.Contains(stdout.String(), path+":3:5:") {
		t.Errorf("expected offense in %s:\n%s", path, stdout.String())
	}
	if !strings.Contains(stdout.String(), "1 file inspected") {
		t.Errorf("expected one file:\n%s", stdout.String())
	}
}

func TestRunNotRuby(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{filepath.Join(dir, "README.md")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "not a Ruby file") {
		t.Errorf("err = %v, want not a Ruby file", err)
	}
}

func TestRunMissingPath(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{filepath.Join(t.TempDir(), "nope")}, &stdout, &stderr); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestRunMaxFileSize(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "small.rb", cleanAPI)
	writeTestFile(t, dir, "big.rb", misplacedAPI+strings.Repeat("# padding\n", 100))

	var stdout, stderr bytes.Buffer
	err := run([]string{"--no-color", "--max-file-size", "200", dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "big.rb: skipped") {
		t.Errorf("expected skip warning, got stderr: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 file inspected") {
		t.Errorf("expected one file:\n%s", stdout.String())
	}
}

func TestRunConfig(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	cfgPath := filepath.Join(dir, "custom.yml")
	writeTestFile(t, dir, "custom.yml", "Grape/MissingDesc:\n  TopLevel: false\nGrape/Typo:\n  Enabled: true\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--no-color", "-c", cfgPath, dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "no offenses detected") {
		t.Errorf("TopLevel: false should allow nested desc:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Warning: Grape/Typo: unknown cop") {
		t.Errorf("expected unknown cop warning, got stderr: %s", stderr.String())
	}
}

func TestRunMissingConfig(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-c", filepath.Join(dir, "absent.yml"), dir}, &stdout, &stderr); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestRunExclude(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	cfgPath := filepath.Join(dir, "custom.yml")
	writeTestFile(t, dir, "custom.yml", "AllCops:\n  Exclude:\n    - app/api/users.rb\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--no-color", "-c", cfgPath, dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 file inspected, no offenses detected") {
		t.Errorf("excluded file should be skipped:\n%s", stdout.String())
	}
}

func TestRunOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "api.rb", `class API < Grape::API
  namespace :x do
    desc 'x'
    delete do
      status 204
    end
  end
end
`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--no-color", "--only", "Grape/StatusNoContent", dir}, &stdout, &stderr)
	if !errors.Is(err, errOffenses) {
		t.Fatalf("run: err = %v, want errOffenses", err)
	}
	out := stdout.String()
	if strings.Contains(out, "Grape/MissingDesc") {
		t.Errorf("--only should skip MissingDesc:\n%s", out)
	}
	if !strings.Contains(out, "Grape/StatusNoContent") {
		t.Errorf("expected StatusNoContent offense:\n%s", out)
	}

	if err := run([]string{"--only", "Grape/Nope", dir}, &stdout, &stderr); err == nil || errors.Is(err, errOffenses) {
		t.Errorf("err = %v, want unknown cop error", err)
	}
}

func TestRunSyntaxError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "ok.rb", cleanAPI)
	writeTestFile(t, dir, "broken.rb", "class Broken < Grape::API\n  desc 'x' do\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--no-color", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "broken.rb") {
		t.Errorf("expected warning for broken.rb, got: %s", stderr.String())
	}
}

func TestRunInitDispatch(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", "--dry-run"}, &stdout, &stderr); err != nil {
		t.Fatalf("run init: %v", err)
	}
	if !strings.Contains(stdout.String(), sentinelStart) {
		t.Errorf("expected config section:\n%s", stdout.String())
	}
}

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"-f", "toon", "."}, []string{"-f", "toon", "."}},
		{"positional first", []string{".", "-f", "toon"}, []string{"-f", "toon", "."}},
		{"mixed", []string{"-c", "lint.yml", "app", "-a", "lib"}, []string{"-c", "lint.yml", "-a", "app", "lib"}},
		{"only list", []string{"--only", "Grape/MissingDesc,Grape/StatusNoContent", "."}, []string{"--only", "Grape/MissingDesc,Grape/StatusNoContent", "."}},
		{"no flags", []string{"."}, []string{"."}},
		{"no args", nil, nil},
		{"bool flag", []string{"-V"}, []string{"-V"}},
		{"double dash", []string{"app", "-a", "--", "-weird.rb"}, []string{"-a", "--", "app", "-weird.rb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
					break
				}
			}
		})
	}
}
