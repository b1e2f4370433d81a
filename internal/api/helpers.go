package api

// MessageResponse carries a human-readable confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func messageOutput(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}

func limitOrDefault(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
