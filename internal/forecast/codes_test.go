package forecast

import "testing"

// ///////////////////////////////////////////////
// CodeMapping Tests
// ///////////////////////////////////////////////

func testMapping(t *testing.T) CodeMapping {
	t.Helper()
	m, err := NewCodeMapping(map[int]string{
		1250: "sunny",
		1220: "partly_cloudy",
		1310: "mostly_clear",
		1580: "very_hot",
	}, "mostly_clear")
	if err != nil {
		t.Fatalf("NewCodeMapping: %v", err)
	}
	return m
}

func TestCodeMappingKnownCodes(t *testing.T) {
	m := testMapping(t)
	tests := []struct {
		code int
		want string
	}{
		{1250, "sunny"},
		{1220, "partly_cloudy"},
		{1310, "mostly_clear"},
		{1580, "very_hot"},
	}
	for _, tt := range tests {
		if got := m.Icon(tt.code); got != tt.want {
			t.Errorf("Icon(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeMappingUnknownCodeFallsBack(t *testing.T) {
	m := testMapping(t)
	if got := m.Icon(9999); got != "mostly_clear" {
		t.Errorf("Icon(9999) = %q, want fallback %q", got, "mostly_clear")
	}
}

func TestCodeMappingRequiresFallback(t *testing.T) {
	if _, err := NewCodeMapping(map[int]string{1250: "sunny"}, ""); err == nil {
		t.Error("NewCodeMapping accepted an empty fallback")
	}
}

func TestCodeMappingRejectsEmptyIconID(t *testing.T) {
	if _, err := NewCodeMapping(map[int]string{1250: ""}, "sunny"); err == nil {
		t.Error("NewCodeMapping accepted an empty icon id")
	}
}
