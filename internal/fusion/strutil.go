package fusion

import "strings"

// jaroSimilarity computes the Jaro similarity between two strings.
// Matching window is floor(max(len)/2)-1; transpositions count half.
func jaroSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	lenA, lenB := len(a), len(b)
	if lenA == 0 || lenB == 0 {
		return 0
	}

	window := maxInt(lenA, lenB)/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, lenA)
	matchedB := make([]bool, lenB)

	matches := 0
	for i := 0; i < lenA; i++ {
		start := maxInt(0, i-window)
		end := minInt(lenB-1, i+window)
		for j := start; j <= end; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions among matched characters.
	transpositions := 0
	k := 0
	for i := 0; i < lenA; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(lenA) + m/float64(lenB) + (m-float64(transpositions))/m) / 3.0
}

// jaroWinkler boosts the Jaro similarity by the length of the common prefix
// (up to 4 characters, boost factor 0.1).
func jaroWinkler(a, b string) float64 {
	jaro := jaroSimilarity(a, b)

	prefix := 0
	for i := 0; i < minInt(len(a), len(b)) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*0.1*(1.0-jaro)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(minInt(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// levenshteinSimilarity normalizes edit distance into [0,1]:
// 1 - distance/max(len_a, len_b).
func levenshteinSimilarity(a, b string) float64 {
	maxLen := maxInt(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// normalizePhone strips non-digit characters and keeps the last 10 digits so
// local and international renderings of the same number compare equal.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
