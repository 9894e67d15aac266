package domain

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user id does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNicknameTaken is returned when creating a user with a nickname already in use.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrNoQuestions indicates the selected category has no active questions.
	ErrNoQuestions = errors.New("no active questions for category")
	// ErrSpinInProgress rejects a spin requested while the wheel is already spinning.
	ErrSpinInProgress = errors.New("spin already in progress")
	// ErrInvalidChoice rejects an answer that is not among the question's options.
	ErrInvalidChoice = errors.New("choice is not one of the question options")
	// ErrSessionEnded rejects actions against a session that has already ended.
	ErrSessionEnded = errors.New("game session has ended")
	// ErrNoSession is returned when a user has no live session.
	ErrNoSession = errors.New("no active game session")
	// ErrRoomNotFound indicates a duel room code does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomUnavailable indicates a duel room is not accepting players.
	ErrRoomUnavailable = errors.New("room is not open for joining")
)
