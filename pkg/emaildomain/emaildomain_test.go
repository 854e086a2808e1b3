package emaildomain

import "testing"

func TestIsServiceProviderDomain(t *testing.T) {
	if !IsServiceProviderDomain("gmail.com") {
		t.Error("expected gmail.com to be a service provider domain")
	}
	if !IsServiceProviderDomain("skadden.com") {
		t.Error("expected skadden.com (law firm) to be a service provider domain")
	}
	if IsServiceProviderDomain("blackrock.com") {
		t.Error("expected blackrock.com to not be a service provider domain")
	}
}

func TestFindPrimaryEntityDomain(t *testing.T) {
	emails := []string{
		"jane@gmail.com",
		"ops@acmefund.com",
		"treasury@acmefund.com",
		"counsel@skadden.com",
	}
	if got := FindPrimaryEntityDomain(emails); got != "acmefund.com" {
		t.Errorf("FindPrimaryEntityDomain = %q, want acmefund.com", got)
	}
}

func TestExtractDomainRoot(t *testing.T) {
	if got := ExtractDomainRoot("mail.blackrock.com"); got != "blackrock" {
		t.Errorf("ExtractDomainRoot = %q", got)
	}
	if got := ExtractDomainRoot("blackrock.com"); got != "blackrock" {
		t.Errorf("ExtractDomainRoot = %q", got)
	}
}

func TestDirectRootMatch(t *testing.T) {
	if !DirectRootMatch("blackrock.com", "BlackRock Fund Advisors") {
		t.Error("expected direct root match")
	}
	if DirectRootMatch("blackrock.com", "Vanguard Group") {
		t.Error("expected no direct root match")
	}
}

func TestCorporateFamilyMatch(t *testing.T) {
	if !CorporateFamilyMatch("goldmansachs.com", "GSAM") {
		t.Error("expected corporate family match on GSAM")
	}
	if CorporateFamilyMatch("goldmansachs.com", "Vanguard Group") {
		t.Error("expected no corporate family match")
	}
}
