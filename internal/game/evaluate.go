// Package game holds the rules of the daily word game: scoring a guess
// against the solution, deriving hint patterns, and folding results into
// player statistics. Nothing in here touches storage.
package game

import "strings"

// WordLength is the length of every guessable word.
const WordLength = 5

// Mark is the feedback for a single letter of a guess.
type Mark string

const (
	// Green means the letter is in the solution at this position.
	Green Mark = "green"
	// Yellow means the letter is in the solution at another position.
	Yellow Mark = "yellow"
	// Gray means the letter is absent or already fully accounted for.
	Gray Mark = "gray"
)

// Normalize trims and lowercases raw guess input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// WellFormed reports whether word is exactly WordLength lowercase ASCII letters.
func WellFormed(word string) bool {
	if len(word) != WordLength {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// Evaluate scores guess against solution.
//
// Exact matches are marked first and consume one occurrence of their letter;
// the remaining positions are then marked yellow while unconsumed occurrences
// of the letter remain, gray otherwise. A letter therefore never receives more
// green and yellow marks than it has occurrences in the solution.
func Evaluate(guess, solution string) []Mark {
	marks := make([]Mark, len(solution))
	remaining := make(map[byte]int, len(solution))
	for i := 0; i < len(solution); i++ {
		remaining[solution[i]]++
	}

	for i := 0; i < len(solution) && i < len(guess); i++ {
		if guess[i] == solution[i] {
			marks[i] = Green
			remaining[guess[i]]--
		}
	}

	for i := range marks {
		if marks[i] != "" {
			continue
		}
		if i < len(guess) && remaining[guess[i]] > 0 {
			marks[i] = Yellow
			remaining[guess[i]]--
			continue
		}
		marks[i] = Gray
	}

	return marks
}

// Solved reports whether every mark is green.
func Solved(marks []Mark) bool {
	if len(marks) == 0 {
		return false
	}
	for _, m := range marks {
		if m != Green {
			return false
		}
	}
	return true
}
