package response

const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Notification is a back-office message shown next to the screen the user lands on
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Notified is a success response whose data also carries notifications.
// The request itself went through; a notification may still report a partial failure.
func Notified(statusCode int, data map[string]interface{}, notes ...Notification) Response {
	if data == nil {
		data = map[string]interface{}{}
	}
	if notes == nil {
		notes = []Notification{}
	}
	data["notifications"] = notes
	return Success(statusCode, data)
}

func Notify(kind, message string) Notification {
	return Notification{Type: kind, Message: message}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
