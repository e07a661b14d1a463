package response

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response конверт успешного ответа для /api/v1 и формы контактов
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse тело любого отказа: error машиночитаемый код, details для человека
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data any) Response {
	return Response{
		Status: statusSuccess,
		Data:   data,
	}
}

func ErrorResponseWithDetails(code, details string) ErrorResponse {
	return ErrorResponse{
		Status:  statusError,
		Error:   code,
		Details: details,
	}
}
