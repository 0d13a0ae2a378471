package ocr

import (
	"reflect"
	"testing"
)

func TestIoU(t *testing.T) {
	a := Region{X: 0, Y: 0, W: 10, H: 10}
	if got := IoU(a, a); got != 1 {
		t.Fatalf("identical boxes IoU = %v, want 1", got)
	}

	b := Region{X: 20, Y: 20, W: 10, H: 10}
	if got := IoU(a, b); got != 0 {
		t.Fatalf("disjoint boxes IoU = %v, want 0", got)
	}

	// Half-overlapping boxes: intersection 50, union 150.
	c := Region{X: 5, Y: 0, W: 10, H: 10}
	got := IoU(a, c)
	if got < 0.33 || got > 0.34 {
		t.Fatalf("IoU = %v, want ~1/3", got)
	}
}

func TestMergeDuplicates(t *testing.T) {
	regions := []Region{
		{Text: "low", X: 0, Y: 0, W: 10, H: 10, Confidence: 0.4},
		{Text: "high", X: 1, Y: 1, W: 10, H: 10, Confidence: 0.9},
		{Text: "other", X: 100, Y: 100, W: 10, H: 10, Confidence: 0.8},
	}
	kept := MergeDuplicates(regions)
	if len(kept) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(kept))
	}
	// The higher-confidence duplicate survives.
	if kept[0].Text != "high" {
		t.Fatalf("expected high-confidence region kept, got %q", kept[0].Text)
	}
}

func TestLinesFromWords(t *testing.T) {
	res := &Result{Words: []Region{
		{Text: "Quiz", X: 30, Y: 10, W: 20, H: 10, Confidence: 0.9},
		{Text: "10/6", X: 0, Y: 11, W: 25, H: 10, Confidence: 0.9},
		{Text: "Exam", X: 0, Y: 40, W: 25, H: 10, Confidence: 0.9},
		{Text: "10/20", X: 30, Y: 41, W: 25, H: 10, Confidence: 0.9},
	}}
	want := []string{"10/6 Quiz", "Exam 10/20"}
	if got := Lines(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %v, want %v", got, want)
	}
}

func TestLinesWordsAssignedToBlocks(t *testing.T) {
	res := &Result{
		Blocks: []Region{
			{X: 0, Y: 0, W: 100, H: 20, Confidence: 0.9},
			{X: 0, Y: 50, W: 100, H: 20, Confidence: 0.9},
		},
		Words: []Region{
			{Text: "second", X: 0, Y: 52, W: 30, H: 10, Confidence: 0.9},
			{Text: "first", X: 0, Y: 2, W: 30, H: 10, Confidence: 0.9},
		},
	}
	want := []string{"first", "second"}
	if got := Lines(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %v, want %v", got, want)
	}
}

func TestLinesPlainTextFallback(t *testing.T) {
	res := &Result{Text: "line one\n\nline two\n"}
	want := []string{"line one", "line two"}
	if got := Lines(res); !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %v, want %v", got, want)
	}
}
