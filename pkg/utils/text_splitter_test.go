package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short guideline", 100, 20)

	if len(chunks) != 1 || chunks[0] != "short guideline" {
		t.Fatalf("expected single untouched chunk, got %v", chunks)
	}
}

func TestSplitTextOverlapCarriesBoundary(t *testing.T) {
	text := strings.Repeat("a", 90) + strings.Repeat("b", 90)

	chunks := SplitText(text, 100, 20)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 {
		t.Errorf("expected first chunk of 100 chars, got %d", len(chunks[0]))
	}
	// Second chunk starts inside the first chunk's tail
	if chunks[0][80:] != chunks[1][:20] {
		t.Errorf("overlap mismatch: %q vs %q", chunks[0][80:], chunks[1][:20])
	}
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)

	// overlap >= chunkSize must not loop forever
	chunks := SplitText(text, 100, 100)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
}
