package dto

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes a single invalid field.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination counters alongside list payloads.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps a page of results with its counters.
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages},
	}
}

func NewErrorResponse(code, message string) Response {
	return errorResponse(&ErrorInfo{Code: code, Message: message})
}

// NewErrorResponseWithRequestID stamps the request ID on the error for
// log correlation.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return errorResponse(&ErrorInfo{Code: code, Message: message, RequestID: requestID})
}

// NewValidationErrorResponse lists the fields that failed binding.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return errorResponse(&ErrorInfo{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	})
}

func errorResponse(info *ErrorInfo) Response {
	return Response{Success: false, Error: info}
}

// IDRequest binds the uuid path parameter shared by detail routes.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
