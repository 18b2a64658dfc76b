package smoke

// Summary counts the checks of one report section.
type Summary struct {
	Overall Verdict `json:"overall"`
	Checks  int     `json:"checks"`
	Passed  int     `json:"passed"`
}

// Summarize yields UNKNOWN for no checks, PASS when every check passed and FAIL otherwise.
func Summarize(checks Checks) Summary {
	s := Summary{Checks: len(checks)}
	for _, c := range checks {
		if c.Result.Pass {
			s.Passed++
		}
	}
	switch {
	case s.Checks == 0:
		s.Overall = Unknown
	case s.Passed == s.Checks:
		s.Overall = Pass
	default:
		s.Overall = Fail
	}
	return s
}
