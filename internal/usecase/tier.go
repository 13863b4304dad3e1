package usecase

import "github.com/shopmatch/backend/internal/domain"

// Tier names used in logs and metrics
const (
	TierIdentifier = "identifier"
	TierKeyword    = "keyword"
)

// TierStatus describes how a matching tier ended
type TierStatus string

const (
	// TierMatched means the provider returned at least one candidate
	TierMatched TierStatus = "matched"
	// TierEmpty means the provider answered with no candidates
	TierEmpty TierStatus = "empty"
	// TierSkipped means the tier did not call the provider (no identifier, platform not configured)
	TierSkipped TierStatus = "skipped"
	// TierDegraded means the provider failed and the failure was converted to an empty result
	TierDegraded TierStatus = "degraded"
)

// TierOutcome is the result of one matching tier. A degraded outcome keeps
// the swallowed provider error for diagnostics but still carries no matches.
type TierOutcome struct {
	Tier    string
	Status  TierStatus
	Matches []domain.MatchResult
	Err     error
}

// Found reports whether the tier produced any matches
func (o TierOutcome) Found() bool {
	return len(o.Matches) > 0
}

func skipped(tier string) TierOutcome {
	return TierOutcome{Tier: tier, Status: TierSkipped, Matches: []domain.MatchResult{}}
}

func degraded(tier string, err error) TierOutcome {
	return TierOutcome{Tier: tier, Status: TierDegraded, Matches: []domain.MatchResult{}, Err: err}
}

func completed(tier string, matches []domain.MatchResult) TierOutcome {
	if len(matches) == 0 {
		return TierOutcome{Tier: tier, Status: TierEmpty, Matches: []domain.MatchResult{}}
	}
	return TierOutcome{Tier: tier, Status: TierMatched, Matches: matches}
}
