package matching

// Config tunes the thresholds the Engine applies while assembling and
// filtering candidates. The defaults reproduce the fixed constants the
// pipeline was originally built around.
type Config struct {
	// MaxResults caps the ranked list the Engine returns.
	MaxResults int

	// FuzzyNameMinCandidates is the candidate count below which the
	// Engine runs the name-candidate query and fuzzy scoring pass.
	FuzzyNameMinCandidates int

	// FuzzyNameScoreFloor is the minimum fuzzy score a candidate needs
	// to be kept.
	FuzzyNameScoreFloor float64

	// EmailDomainMinCandidates is the candidate count below which the
	// Engine adds baseline email-domain-only candidates.
	EmailDomainMinCandidates int

	// EmailDomainBaselineScore is the flat score given to a candidate
	// found only by email-domain lookup.
	EmailDomainBaselineScore float64
}

// DefaultConfig returns the pipeline's standard thresholds.
func DefaultConfig() Config {
	return Config{
		MaxResults:               5,
		FuzzyNameMinCandidates:   5,
		FuzzyNameScoreFloor:      50,
		EmailDomainMinCandidates: 3,
		EmailDomainBaselineScore: 60,
	}
}
