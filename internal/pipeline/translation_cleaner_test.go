package pipeline

import "testing"

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parenthetical and dash suffix", "Hello (greeting) - a common phrase.", "Hello"},
		{"khmer with zero width space", "សួស្តី​ (a greeting) - informal", "សួស្តី"},
		{"language prefix", "In Khmer, សួស្តី", "សួស្តី"},
		{"language prefix case insensitive without comma", "in khmer សួស្តី", "សួស្តី"},
		{"quotes", "\"សួស្តី\" 'friend' “quoted” ‘single’", "សួស្តី friend quoted single"},
		{"period truncation", "សួស្តី. How are you.", "សួស្តី"},
		{"en dash", "អរគុណ – thank you", "អរគុណ"},
		{"em dash", "អរគុណ—thank you", "អរគុណ"},
		{"prefix only after dash cut", "Greeting - In Khmer, hi", "Greeting"},
		{"empty", "", ""},
		{"whitespace only", " \t\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTranslation(tt.in, "Khmer"); got != tt.want {
				t.Fatalf("CleanTranslation(%q): got %q want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTranslation_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello (greeting) - a common phrase.",
		"  In Khmer, In Khmer, សួស្តី",
		"\"In Khmer,\" hello",
		"((nested) aside) text",
		"plain",
	}
	c := NewCleaner("Khmer")
	for _, in := range inputs {
		once := c.Clean(in)
		if twice := c.Clean(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCleaner_TargetLanguageIsLiteral(t *testing.T) {
	if got := NewCleaner("C++").Clean("In C++, x"); got != "x" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := NewCleaner("C++").Clean("In CCC, x"); got != "In CCC, x" {
		t.Fatalf("language name treated as a pattern: %q", got)
	}
	if got := NewCleaner("Thai").Clean("In Thai, สวัสดี"); got != "สวัสดี" {
		t.Fatalf("unexpected result for Thai: %q", got)
	}
}
