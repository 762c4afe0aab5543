package domain

import "errors"

var (
	// ErrBusy means another request is already in flight for this user.
	ErrBusy = errors.New("previous request is still being processed")

	// ErrContextTooLong is the completion service's context-length failure.
	// It is recovered internally by trimming dialog history.
	ErrContextTooLong = errors.New("context is too long for completion")

	// ErrContextOverflow means history was trimmed to nothing and the
	// request still does not fit. Fatal for the request.
	ErrContextOverflow = errors.New("dialog reduced to zero messages but context is still too long")

	// ErrContentRejected is the image-generation moderation failure.
	ErrContentRejected = errors.New("request rejected by the safety system")

	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrUserNotFound     = errors.New("user not found")
	ErrDialogNotFound   = errors.New("dialog not found")
	ErrModelNotFound    = errors.New("model not found")
	ErrChatModeNotFound = errors.New("chat mode not found")
)
