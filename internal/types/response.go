package types

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Count   *int     `json:"count,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

func Ok(data any) Response {
	return Response{Success: true, Data: data}
}

func List(data any, count int) Response {
	return Response{Success: true, Data: data, Count: &count}
}

func Fail(message string) Response {
	return Response{Success: false, Error: message}
}
