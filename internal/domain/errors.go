package domain

import "errors"

var (
	// ErrInvalidState is returned when a quiz action is not legal in the session's current state.
	ErrInvalidState = errors.New("quiz session is not in a state that allows this action")
	// ErrNoAnswers is returned when submitting a quiz with no selected answers.
	ErrNoAnswers = errors.New("answer at least one question before submitting")
	// ErrUnknownQuestion indicates a selection for a question ID the quiz does not contain.
	ErrUnknownQuestion = errors.New("question not found")
	// ErrInvalidOptionKey indicates a selection that is not a single option letter a-d.
	ErrInvalidOptionKey = errors.New("option key must be a single letter a-d")
	// ErrNoQuiz is returned when acting on a workspace before any quiz was generated.
	ErrNoQuiz = errors.New("no quiz has been generated yet")
	// ErrWorkspaceNotFound indicates the visitor has no stored workspace.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrEmptyContent is returned when there is no study material to generate from.
	ErrEmptyContent = errors.New("study material is empty")
	// ErrGeneration wraps content provider failures.
	ErrGeneration = errors.New("content generation failed")
	// ErrStore wraps activity store failures.
	ErrStore = errors.New("activity store failure")
)
