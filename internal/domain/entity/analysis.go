package entity

import "fmt"

type Verdict string

const (
	VerdictSign      Verdict = "Sign"
	VerdictNegotiate Verdict = "Negotiate"
	VerdictAvoid     Verdict = "Avoid"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictSign, VerdictNegotiate, VerdictAvoid:
		return true
	}
	return false
}

type Clause struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// AnalysisResult is the structured contract review returned by the web front-end.
type AnalysisResult struct {
	RiskyClauses         []Clause `json:"risky_clauses"`
	SafeClauses          []Clause `json:"safe_clauses"`
	HiddenTraps          []Clause `json:"hidden_traps"`
	FinancialObligations string   `json:"financial_obligations"`
	ExitConditions       string   `json:"exit_conditions"`
	Summary              string   `json:"summary"`
	Verdict              Verdict  `json:"verdict"`
	VerdictReason        string   `json:"verdict_reason"`
}

// Validate only enforces what the response shape guarantees. Item counts are
// guidance for the model and are not checked.
func (a *AnalysisResult) Validate() error {
	if !a.Verdict.Valid() {
		return fmt.Errorf("%w: verdict %q", ErrMalformedResponse, a.Verdict)
	}
	if a.RiskyClauses == nil {
		a.RiskyClauses = []Clause{}
	}
	if a.SafeClauses == nil {
		a.SafeClauses = []Clause{}
	}
	if a.HiddenTraps == nil {
		a.HiddenTraps = []Clause{}
	}
	return nil
}
