package aiext

import "testing"

func TestStreamText(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
(Course Schedule) Tj
0 -14 Td
(Exam 10\/20 at 9:00) Tj
T*
[(Quiz) -250 (10\/6)] TJ
ET`)
	got := streamText(stream)
	want := "Course Schedule\nExam 10/20 at 9:00\nQuiz10/6"
	if got != want {
		t.Fatalf("streamText = %q, want %q", got, want)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`with \(parens\)`, "with (parens)"},
		{`tab\there`, "tab\there"},
		{`octal \101\102`, "octal AB"},
		{`backslash \\ kept`, `backslash \ kept`},
	}
	for _, tc := range tests {
		if got := decodePDFString([]byte(tc.in)); got != tc.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTidyPageText(t *testing.T) {
	in := "  a   b\t c \n\n  \nnext   line \n"
	want := "a b c\nnext line"
	if got := tidyPageText(in); got != want {
		t.Fatalf("tidyPageText = %q, want %q", got, want)
	}
}
