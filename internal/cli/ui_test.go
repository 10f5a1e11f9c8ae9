package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		nodes, edges int
		cached       bool
		want         []string
	}{
		{6, 5, false, []string{"6 nodes", "5 edges", "fresh"}},
		{1, 0, true, []string{"1 node", "0 edges", "cached"}},
	}
	for _, tt := range tests {
		buf := captureStdout(t)
		printStats(tt.nodes, tt.edges, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("printStats(%d, %d, %v) = %q, missing %q", tt.nodes, tt.edges, tt.cached, buf.String(), w)
			}
		}
	}
}

func TestPrintKeyValue(t *testing.T) {
	buf := captureStdout(t)
	printKeyValue("Persons", "9")
	if got := buf.String(); !strings.HasPrefix(got, "Persons") || !strings.HasSuffix(got, "9\n") {
		t.Errorf("printKeyValue = %q", got)
	}
}
