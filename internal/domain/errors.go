package domain

import "errors"

var (
	ErrWhisperNotFound = errors.New("whisper not found")
	ErrLikeDebounced   = errors.New("like already recorded for this session")
	ErrRateLimited     = errors.New("too many whispers, slow down")
)
