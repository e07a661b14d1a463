package storage

import "errors"

var (
	ErrAlreadyExists = errors.New("already exists")

	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	ErrGalleryNotFound = errors.New("gallery not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrPostNotFound    = errors.New("blog post not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrVariantNotFound = errors.New("product variant not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
