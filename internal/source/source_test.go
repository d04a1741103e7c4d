package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFileSource_GetLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	writeFile(t, path, "##[group]Run\nhello\n##[endgroup]\n")

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	if src.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", src.LineCount())
	}
	line, err := src.GetLine(1)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if line.Content != "hello" || line.OriginalIndex != 1 || line.Source.Path != path {
		t.Fatalf("GetLine = %+v", line)
	}
	if line, _ := src.GetLine(9); line != nil {
		t.Fatalf("GetLine(9) = %+v, want nil", line)
	}

	got, err := src.GetLines(1, 10)
	if err != nil {
		t.Fatalf("GetLines: %v", err)
	}
	if len(got) != 2 || got[1].Content != "##[endgroup]" || got[1].OriginalIndex != 2 {
		t.Fatalf("GetLines = %+v", got)
	}
}

func TestFileSource_NextHoldsPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	writeFile(t, path, "one\ntw")

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	got, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"one"}) {
		t.Fatalf("Next = %q, want [one]", got)
	}
	if got, _ := src.Next(); got != nil {
		t.Fatalf("second Next = %q, want nil", got)
	}

	writeFile(t, path, "one\ntwo\nthree\n")
	if _, err := src.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, err = src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"two", "three"}) {
		t.Fatalf("Next after growth = %q, want [two three]", got)
	}
}

func TestFileSource_RefreshCountsNewLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	writeFile(t, path, "a\n")

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	if n, err := src.Refresh(); err != nil || n != 0 {
		t.Fatalf("Refresh unchanged = %d, %v", n, err)
	}
	writeFile(t, path, "a\nb\nc\n")
	if n, err := src.Refresh(); err != nil || n != 2 {
		t.Fatalf("Refresh = %d, %v; want 2", n, err)
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"build/10_Post Run actions_checkout@v4.txt",
		"build/2_Run actions_checkout@v4.txt",
		"build/1_Set up job.txt",
		"0_build.txt",
		"build/notes.md",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), "x\n")
	}

	got, err := Expand(root, "")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{
		filepath.Join(root, "0_build.txt"),
		filepath.Join(root, "build", "1_Set up job.txt"),
		filepath.Join(root, "build", "2_Run actions_checkout@v4.txt"),
		filepath.Join(root, "build", "10_Post Run actions_checkout@v4.txt"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %q\nwant %q", got, want)
	}

	only, err := Expand(root, "build/1_*")
	if err != nil {
		t.Fatalf("Expand with pattern: %v", err)
	}
	if len(only) != 1 {
		t.Fatalf("Expand(build/1_*) = %q", only)
	}
}

func TestExpand_FileAndErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "job.log")
	writeFile(t, file, "x\n")

	got, err := Expand(file, "")
	if err != nil || !reflect.DeepEqual(got, []string{file}) {
		t.Fatalf("Expand(file) = %q, %v", got, err)
	}
	if _, err := Expand(root, "[bad"); err == nil {
		t.Fatalf("Expand with invalid pattern returned nil error")
	}
	if _, err := Expand(root, "**/*.txt"); err == nil {
		t.Fatalf("Expand with no matches returned nil error")
	}
	if _, err := Expand(filepath.Join(root, "missing"), ""); err == nil {
		t.Fatalf("Expand of missing path returned nil error")
	}
}

func TestLoadAll_PreservesOrder(t *testing.T) {
	root := t.TempDir()
	var paths []string
	for i, content := range []string{"a\nb\n", "c\n", "", "d"} {
		path := filepath.Join(root, string(rune('a'+i))+".txt")
		writeFile(t, path, content)
		paths = append(paths, path)
	}

	logs, err := LoadAll(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	want := [][]string{{"a", "b"}, {"c"}, {}, {"d"}}
	for i, log := range logs {
		if log.Path != paths[i] {
			t.Fatalf("logs[%d].Path = %q, want %q", i, log.Path, paths[i])
		}
		if !reflect.DeepEqual(log.Lines, want[i]) {
			t.Fatalf("logs[%d].Lines = %q, want %q", i, log.Lines, want[i])
		}
	}
}

func TestLoadAll_Errors(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.txt")
	writeFile(t, good, "x\n")

	if _, err := LoadAll(context.Background(), []string{good, filepath.Join(root, "missing.txt")}, 0); err == nil {
		t.Fatalf("LoadAll with a missing file returned nil error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadAll(ctx, []string{good}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("LoadAll on cancelled context = %v, want context.Canceled", err)
	}
}
