package phone

import "testing"

func TestNormalizeStripsWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"021 234 5678", "0212345678"},
		{" 021 234 5678 ", "0212345678"},
		{"0212345678", "0212345678"},
		{"021\t234\t5678", "0212345678"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsStable(t *testing.T) {
	once := Normalize("021 234 5678")
	twice := Normalize(once)
	if once != twice {
		t.Errorf("Normalize is not idempotent: %q != %q", once, twice)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("021 234 5678") {
		t.Error("expected NZ mobile to be valid")
	}
	if IsValid("not a phone") {
		t.Error("expected garbage input to be invalid")
	}
}

func TestFormatE164FallsBackToNormalized(t *testing.T) {
	if got := FormatE164("not a phone"); got != "notaphone" {
		t.Errorf("FormatE164 fallback = %q, want %q", got, "notaphone")
	}
	if got := FormatE164("021 234 5678"); got != "+64212345678" {
		t.Errorf("FormatE164 = %q, want %q", got, "+64212345678")
	}
}
