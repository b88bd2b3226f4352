package extract

import "testing"

func TestCleanTextNormalizesNewlines(t *testing.T) {
	got := CleanText("first line\r\nsecond line\rthird line")
	want := "first line\nsecond line\nthird line"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextStripsControlChars(t *testing.T) {
	got := CleanText("hello\x00world\x0Cnext\x7Fpage")
	want := "helloworldnextpage"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextCollapsesHorizontalWhitespace(t *testing.T) {
	got := CleanText("too   many\t\tspaces here")
	want := "too many spaces here"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextPreservesParagraphBoundaries(t *testing.T) {
	got := CleanText("paragraph one\n\nparagraph two\n \n  \nparagraph three")
	want := "paragraph one\n\nparagraph two\n\nparagraph three"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextKeepsSingleNewlines(t *testing.T) {
	got := CleanText("line one\nline two")
	want := "line one\nline two"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextTrimsEdges(t *testing.T) {
	got := CleanText("\n\n  content  \n\n")
	want := "content"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextEmpty(t *testing.T) {
	if got := CleanText(""); got != "" {
		t.Errorf("CleanText(\"\") = %q, want empty", got)
	}
}
