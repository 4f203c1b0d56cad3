// # internal/engine/maintainability/maintainability_test.go
package maintainability

import "testing"

func TestLineCounting(t *testing.T) {
	source := `# leading comment
x = 1

# another
y = 2
`
	rep := Analyze("m.py", source, ".py")
	if rep.LinesCode != 2 {
		t.Errorf("code lines = %d, want 2", rep.LinesCode)
	}
	if rep.LinesComment != 2 {
		t.Errorf("comment lines = %d, want 2", rep.LinesComment)
	}
	if rep.LinesBlank < 1 {
		t.Errorf("blank lines = %d, want at least 1", rep.LinesBlank)
	}
}

func TestBlockCommentSpansLines(t *testing.T) {
	source := `/* first
second
third */
int x = 1;
`
	rep := Analyze("m.java", source, ".java")
	if rep.LinesComment != 3 {
		t.Errorf("comment lines = %d, want 3", rep.LinesComment)
	}
	if rep.LinesCode != 1 {
		t.Errorf("code lines = %d, want 1", rep.LinesCode)
	}
}

func TestCyclomaticComplexity(t *testing.T) {
	source := `def f(a, b):
    if a and b:
        return 1
    for i in a:
        while b:
            b -= 1
    return 0
`
	rep := Analyze("f.py", source, ".py")
	// base 1 + if + and + for + while
	if rep.CyclomaticComplexity != 5 {
		t.Errorf("complexity = %d, want 5", rep.CyclomaticComplexity)
	}
}

func TestIndexBounds(t *testing.T) {
	simple := Analyze("s.py", "x = 1\n", ".py")
	if simple.Index < 0 || simple.Index > 100 {
		t.Fatalf("index out of range: %v", simple.Index)
	}
	if simple.Interpretation != "highly maintainable" {
		t.Errorf("trivial file interpretation = %q", simple.Interpretation)
	}

	empty := Analyze("e.py", "", ".py")
	if empty.Index != 100 {
		t.Errorf("empty file index = %v, want 100", empty.Index)
	}
}

func TestLargerVolumeLowersIndex(t *testing.T) {
	small := Analyze("a.py", "x = 1\ny = 2\n", ".py")

	var big string
	for i := 0; i < 60; i++ {
		big += "if value_a and value_b:\n    result = compute(value_a, value_b, extra)\n"
	}
	large := Analyze("b.py", big, ".py")

	if large.Index >= small.Index {
		t.Errorf("index did not decrease with volume: small %v, large %v",
			small.Index, large.Index)
	}
}
