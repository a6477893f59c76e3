package handler

// envelope is the canonical success wrapper: {"status": "success", "data": …}.
// Error envelopes are produced by the centralized error handler.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

func success(data any) envelope {
	return envelope{Status: "success", Data: data}
}
