package domain

import "unicode"

// QueryLanguage selects the fusion weight pair for a query.
type QueryLanguage string

// Detected query languages.
const (
	// LanguageDefault covers everything that is not Hangul-majority.
	LanguageDefault QueryLanguage = "default"

	// LanguageKorean is used when the query is mostly Hangul script.
	// Embeddings underperform on short Korean queries, so lexical
	// signal is weighted up.
	LanguageKorean QueryLanguage = "korean"
)

// hangulMajorityRatio is the fraction of letters that must be Hangul
// for a query to be treated as Korean.
const hangulMajorityRatio = 0.5

// DetectLanguage classifies a query by script. Only letters count toward
// the ratio; digits, punctuation, and spaces are neutral.
func DetectLanguage(query string) QueryLanguage {
	letters := 0
	hangul := 0
	for _, r := range query {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		}
	}
	if letters == 0 {
		return LanguageDefault
	}
	if float64(hangul)/float64(letters) > hangulMajorityRatio {
		return LanguageKorean
	}
	return LanguageDefault
}
