package dto

// ChatCompletionRequest is the request payload for the OpenAI-compatible
// GitHub Models chat/completions endpoint.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Message is one chat message; vision requests carry mixed text/image parts.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is either a text part or an image_url part.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries a base64 data URL for inline images.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatCompletionResponse is the subset of the response we consume.
type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Candidate is one stock as identified by the vision model, before any
// ticker resolution.
type Candidate struct {
	Name   string `json:"name"`
	Change string `json:"change"`
}

// HeatmapAnalysis is the JSON document the model is instructed to return.
type HeatmapAnalysis struct {
	TopLosers []Candidate `json:"top_losers"`
	Market    string      `json:"market"`
	Industry  string      `json:"industry"`
}
