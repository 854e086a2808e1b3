package country

import "testing"

func TestIsValidCode(t *testing.T) {
	if !IsValidCode("us") {
		t.Fatal("expected 'us' (lowercase) to be valid")
	}
	if IsValidCode("ZZ") {
		t.Fatal("expected 'ZZ' to be invalid")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"United States":    "US",
		" usa ":            "US",
		"united kingdom":   "GB",
		"uk":               "GB",
		"GB":               "GB",
		"Cayman Islands":   "KY",
		"Not A Real Place": "NOT A REAL PLACE",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsGeographicMatch(t *testing.T) {
	if !IsGeographicMatch("US", "United States") {
		t.Fatal("expected US / United States to match")
	}
	if IsGeographicMatch("US", "Canada") {
		t.Fatal("expected US / Canada to not match")
	}
	if IsGeographicMatch("", "Canada") || IsGeographicMatch("US", "") {
		t.Fatal("expected empty inputs to never match")
	}
}
