package io

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNextVersionedPath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "family_tree.gv")

	got, err := NextVersionedPath(base)
	if err != nil {
		t.Fatalf("NextVersionedPath: %v", err)
	}
	if want := filepath.Join(dir, "family_tree_0.gv"); got != want {
		t.Errorf("first = %s, want %s", got, want)
	}

	for _, name := range []string{"family_tree_0.gv", "family_tree_1.gv"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err = NextVersionedPath(base)
	if err != nil {
		t.Fatalf("NextVersionedPath: %v", err)
	}
	if want := filepath.Join(dir, "family_tree_2.gv"); got != want {
		t.Errorf("next = %s, want %s", got, want)
	}
}

func TestNextVersionedPathNoExtension(t *testing.T) {
	dir := t.TempDir()
	got, err := NextVersionedPath(filepath.Join(dir, "tree"))
	if err != nil {
		t.Fatalf("NextVersionedPath: %v", err)
	}
	if want := filepath.Join(dir, "tree_0"); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
