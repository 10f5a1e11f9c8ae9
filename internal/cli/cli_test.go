package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
)

func quietCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestLoadRowsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.csv")
	csv := "id,person_name,sex,father_id,mother_id,marriage_1\n1,Piero,M,,,2\n2,Pina,F,,,1\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := quietCLI().loadRows(context.Background(), []string{path}, inputFlags{})
	if err != nil {
		t.Fatalf("loadRows: %v", err)
	}
	if len(rows) != 2 || rows[1]["person_name"] != "Pina" {
		t.Errorf("rows = %v", rows)
	}
}

func TestLoadRowsArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		in   inputFlags
	}{
		{"no file", nil, inputFlags{}},
		{"two files", []string{"a.csv", "b.csv"}, inputFlags{}},
		{"file with mongo", []string{"a.csv"}, inputFlags{mongo: true}},
		{"file with sqlite", []string{"a.csv"}, inputFlags{sqlite: "a.db"}},
		{"wrong extension", []string{"family.xlsx"}, inputFlags{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := quietCLI().loadRows(context.Background(), tt.args, tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	c := quietCLI()
	c.Config.Cache.Dir = t.TempDir()

	ch, err := c.newCache(context.Background(), false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", ch)
	}

	ch, err = c.newCache(context.Background(), true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T", ch)
	}

	c.Config.Cache.Backend = config.BackendNone
	ch, _ = c.newCache(context.Background(), false)
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("backend none gave %T", ch)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := quietCLI().RootCommand()
	for _, name := range []string{"render", "check", "inspect", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.csv")
	csv := "id,person_name,sex,father_id,mother_id,marriage_1\n" +
		"1,Piero,M,,,2\n2,Pina,F,,,1\n3,Aurora,F,1,2,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	csv := writeSampleCSV(t)
	buf := captureStdout(t)

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"check", csv, "--households"})
	if err := root.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"Family is consistent", "Persons", "3", "node-1-2 (couple): Piero, Pina"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRenderCommandToStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	csv := writeSampleCSV(t)
	buf := captureStdout(t)

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"render", csv, "-f", "dot", "-o", "-", "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `"node-1-2":"c1_2" -> "node-3":"p3"`) {
		t.Errorf("stdout = %s", buf.String())
	}
}

func TestRenderCommandWritesVersionedFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	csv := writeSampleCSV(t)
	out := t.TempDir()
	captureStdout(t)

	for range 2 {
		root := quietCLI().RootCommand()
		root.SetArgs([]string{"render", csv, "-f", "dot,json", "--output-dir", out, "--name", "tree", "--no-cache"})
		if err := root.Execute(); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	for _, name := range []string{"tree_0.gv", "tree_1.gv", "tree_0.json", "tree_1.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommandRejectsOutputWithManyFormats(t *testing.T) {
	t.Chdir(t.TempDir())
	csv := writeSampleCSV(t)

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"render", csv, "-f", "dot,svg", "-o", "x"})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("expected error for -o with two formats")
	}
}

func TestRenderCommandReplaysSavedDiagram(t *testing.T) {
	t.Chdir(t.TempDir())
	csv := writeSampleCSV(t)
	dir := t.TempDir()
	saved := filepath.Join(dir, "tree.json")
	gv := filepath.Join(dir, "tree.gv")
	captureStdout(t)

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"render", csv, "-f", "json", "-o", saved, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render csv: %v", err)
	}

	root = quietCLI().RootCommand()
	root.SetArgs([]string{"render", saved, "-f", "dot", "-o", gv, "--rankdir", "lr", "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render json: %v", err)
	}
	data, err := os.ReadFile(gv)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rankdir=LR;", `"node-1-2":"c1_2" -> "node-3":"p3"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("dot missing %q:\n%s", want, data)
		}
	}
}
