package phone

import "testing"

func TestNormalizeE164_LocalMobileFormat(t *testing.T) {
	if got := NormalizeE164("09171234567"); got != "+639171234567" {
		t.Fatalf("expected +639171234567, got %s", got)
	}
}

func TestNormalizeE164_AlreadyInternational(t *testing.T) {
	if got := NormalizeE164("+639171234567"); got != "+639171234567" {
		t.Fatalf("expected +639171234567, got %s", got)
	}
}

func TestNormalizeE164_InvalidNumberReturnsTrimmedInput(t *testing.T) {
	if got := NormalizeE164("  12345  "); got != "12345" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestNormalizeE164_EmptyInput(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("09171234567") {
		t.Fatal("expected local mobile number to be valid")
	}
	if IsValid("12345") {
		t.Fatal("expected short number to be invalid")
	}
}
