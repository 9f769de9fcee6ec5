package service

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthorized      = errors.New("user not authorized")
	ErrValidation         = errors.New("please fill in all fields")
	ErrImageUpload        = errors.New("image could not be uploaded")
	ErrImageTooLarge      = errors.New("image exceeds the upload size limit")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMailNotSent        = errors.New("email not sent")
)
