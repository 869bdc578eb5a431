package token

import "testing"

func TestMakePosRoundTrip(t *testing.T) {
	cases := []struct{ line, col int }{
		{1, 1},
		{1, 2},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d,%d).LineCol() = (%d,%d)", c.line, c.col, gotLine, gotCol)
		}
	}
}

func TestPosUnknown(t *testing.T) {
	if !MakePos(0, 0).Unknown() {
		t.Error("MakePos(0,0) should be Unknown")
	}
	if MakePos(1, 1).Unknown() {
		t.Error("MakePos(1,1) should not be Unknown")
	}
}
