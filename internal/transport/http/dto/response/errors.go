package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  statusError,
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: statusError,
		Error:  "authentication_failed",
	}

	ErrInvalidRegisterRequest = ErrorResponse{
		Status:  statusError,
		Error:   "invalid_register_request",
		Details: "Invalid registration data",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  statusError,
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrForbidden = ErrorResponse{
		Status:  statusError,
		Error:   "forbidden",
		Details: "You do not own this resource",
	}

	ErrGalleryLocked = ErrorResponse{
		Status:  statusError,
		Error:   "gallery_locked",
		Details: "A valid access key or password is required",
	}

	ErrInternal = ErrorResponse{
		Status:  statusError,
		Error:   "internal_error",
		Details: "Something went wrong, please try again",
	}
)
