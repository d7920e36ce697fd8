package game

import "strings"

// Hidden marks an unrevealed position in a hint pattern.
const Hidden = '_'

// EmptyMask is a hint mask with nothing revealed.
var EmptyMask = strings.Repeat(string(Hidden), WordLength)

// RevealedPattern returns the solution with every position hidden except the
// ones guessed exactly in any of guesses or already revealed in hintMask.
func RevealedPattern(solution string, guesses []string, hintMask string) string {
	pattern := []byte(strings.Repeat(string(Hidden), len(solution)))
	for _, g := range guesses {
		for i := 0; i < len(solution) && i < len(g); i++ {
			if g[i] == solution[i] {
				pattern[i] = solution[i]
			}
		}
	}
	for i := 0; i < len(solution) && i < len(hintMask); i++ {
		if hintMask[i] != Hidden {
			pattern[i] = solution[i]
		}
	}
	return string(pattern)
}

// RevealOne uncovers one hidden position of pattern, chosen with intn, and
// returns the new pattern and the uncovered index. ok is false when nothing is
// left to reveal.
func RevealOne(solution, pattern string, intn func(n int) int) (revealed string, index int, ok bool) {
	var hidden []int
	for i := 0; i < len(pattern) && i < len(solution); i++ {
		if pattern[i] == Hidden {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return pattern, -1, false
	}

	index = hidden[intn(len(hidden))]
	b := []byte(pattern)
	b[index] = solution[index]
	return string(b), index, true
}

// AddToMask records solution[index] as hint-revealed in mask.
func AddToMask(mask, solution string, index int) string {
	if len(mask) != len(solution) {
		mask = strings.Repeat(string(Hidden), len(solution))
	}
	b := []byte(mask)
	b[index] = solution[index]
	return string(b)
}
