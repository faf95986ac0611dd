package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractToLeavesPartialFileOnFailure(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "block.bin")
	fail := errors.New("copy failed")

	err := extractTo(dest, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("err = %v, want the extract error", err)
	}

	// The direct path is explicitly non-transactional.
	got, readErr := os.ReadFile(dest)
	if readErr != nil {
		t.Fatalf("read dest: %v", readErr)
	}
	if string(got) != "partial" {
		t.Fatalf("dest = %q", got)
	}
}

func TestExtractAtomicSuccess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "block.bin")

	err := extractAtomic(dest, func(w io.Writer) error {
		_, werr := w.Write([]byte("payload"))
		return werr
	})
	if err != nil {
		t.Fatalf("extract atomic: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("dest = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestExtractAtomicFailureLeavesNoDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "block.bin")
	fail := errors.New("copy failed")

	err := extractAtomic(dest, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("err = %v, want the extract error", err)
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination exists after failed atomic extract")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}
