package domain

import "errors"

var (
	// ErrVideoNotFound indicates the requested video is not in the catalog.
	ErrVideoNotFound = errors.New("video not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuizLocked is returned when a student opens a quiz before reaching completion.
	ErrQuizLocked = errors.New("quiz locked until the video is watched to the end")
	// ErrQuizSessionNotFound is returned when a student acts before starting a quiz.
	ErrQuizSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidVideo indicates an upload draft failed authoring validation.
	ErrInvalidVideo = errors.New("invalid video draft")
	// ErrUnknownRole indicates an identity string outside the known roles.
	ErrUnknownRole = errors.New("unknown role")
)
