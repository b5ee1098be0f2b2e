package response

import "employee-portal/internal/domain"

// Body is the error envelope. Errors is only set for validation failures.
type Body struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// Error builds the body for status code; an empty msg falls back to the
// status default.
func Error(code int, msg string) Body {
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return Body{Message: msg}
}

func Invalid(msg string, fields []domain.FieldError) Body {
	return Body{Message: msg, Errors: fields}
}
