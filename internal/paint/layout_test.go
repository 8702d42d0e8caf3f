package paint

import "testing"

func TestVerticalMinTakesRemainder(t *testing.T) {
	areas := Vertical([]Constraint{{Kind: Min, N: 1}, {Kind: Length, N: 1}}, Area{Rows: 24, Cols: 80})
	if areas[0].Rows != 23 {
		t.Errorf("main area rows = %d, want 23", areas[0].Rows)
	}
	if areas[1].Rows != 1 {
		t.Errorf("help area rows = %d, want 1", areas[1].Rows)
	}
	if areas[1].Row != 23 {
		t.Errorf("help area starts at row %d, want 23", areas[1].Row)
	}
}

func TestHorizontalLengthAndMin(t *testing.T) {
	areas := Horizontal([]Constraint{{Kind: Length, N: 24}, {Kind: Min, N: 1}}, Area{Rows: 24, Cols: 80})
	if areas[0].Cols != 24 {
		t.Errorf("list area cols = %d, want 24", areas[0].Cols)
	}
	if areas[1].Cols != 56 {
		t.Errorf("term area cols = %d, want 56", areas[1].Cols)
	}
	if areas[1].Col != 24 {
		t.Errorf("term area starts at col %d, want 24", areas[1].Col)
	}
}

func TestPercentageSplit(t *testing.T) {
	areas := Vertical([]Constraint{{Kind: Percentage, N: 50}, {Kind: Percentage, N: 50}}, Area{Rows: 20, Cols: 10})
	if areas[0].Rows != 10 || areas[1].Rows != 10 {
		t.Errorf("expected 10/10 split, got %d/%d", areas[0].Rows, areas[1].Rows)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 5); got != "hello" {
		t.Errorf("truncate = %q, want %q", got, "hello")
	}
	if got := truncate("hi", 10); got != "hi" {
		t.Errorf("truncate should not pad, got %q", got)
	}
}
