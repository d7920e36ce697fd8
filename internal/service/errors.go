package service

import "errors"

// Kind classifies a service error so callers can map it to a response
type Kind int

const (
	KindValidation Kind = iota + 1
	KindBudgetExceeded
	KindNotFound
	KindStateConflict
	KindExhausted
	KindUnauthenticated
	KindDuplicate
)

// Error is a domain failure detected before any write was made
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNoLivesLeft      = &Error{Kind: KindBudgetExceeded, Code: "no_lives_left", Message: "No lives left for today"}
	ErrNoWordsAvailable = &Error{Kind: KindExhausted, Code: "no_words_available", Message: "No words available"}
	ErrInvalidWord      = &Error{Kind: KindValidation, Code: "invalid_word", Message: "Not a valid word"}
	ErrNoActiveSession  = &Error{Kind: KindStateConflict, Code: "no_active_session", Message: "No active game"}
	ErrNoGuessYet       = &Error{Kind: KindStateConflict, Code: "no_guess_yet", Message: "Make a guess before using a hint"}
	ErrAllRevealed      = &Error{Kind: KindStateConflict, Code: "all_revealed", Message: "All letters are already revealed"}
	ErrConcurrentUpdate = &Error{Kind: KindStateConflict, Code: "concurrent_update", Message: "Game was updated concurrently, try again"}

	ErrUserNotFound = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
	ErrWordNotFound = &Error{Kind: KindNotFound, Code: "word_not_found", Message: "Word not found"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Code: "invalid_credentials", Message: "Invalid username/email or password"}
	ErrUsernameTaken      = &Error{Kind: KindDuplicate, Code: "username_taken", Message: "Username already taken"}
	ErrEmailTaken         = &Error{Kind: KindDuplicate, Code: "email_taken", Message: "Email already registered"}
)

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_input", Message: msg}
}

// KindOf returns the kind of a service error, or 0 for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
