package gemini

import "encoding/json"

// chunk is the subset of a GenerateContentResponse event the relay reads.
type chunk struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChunkText returns candidates[0].content.parts[0].text of one SSE payload.
// A well-formed event without text yields "" and a nil error.
func ChunkText(payload string) (string, error) {
	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return "", err
	}
	if len(c.Candidates) == 0 || len(c.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return c.Candidates[0].Content.Parts[0].Text, nil
}
