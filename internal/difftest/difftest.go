// Package difftest provides a small test helper for unified-diff string
// comparisons, adapted from the repository's golden-file diffing
// conventions for tests that compare generated text without needing a
// full golden-file directory (disassembly, AST dumps).
package difftest

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// Equal fails t with a unified diff if want != got.
func Equal(t *testing.T, label, want, got string) {
	t.Helper()
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
