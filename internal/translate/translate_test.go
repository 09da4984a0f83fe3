package translate

import (
	"context"
	"testing"
)

func TestTranslateSkipsBlankText(t *testing.T) {
	c := New("unused")
	for _, text := range []string{"", "   ", "\n\t"} {
		got, err := c.Translate(context.Background(), text, "Spanish", "English")
		if err != nil {
			t.Fatalf("Translate(%q): %v", text, err)
		}
		if got != text {
			t.Errorf("Translate(%q) = %q, want input unchanged", text, got)
		}
	}
}
