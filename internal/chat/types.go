package chat

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript. Image and Audio are data URIs.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Audio     string    `json:"audio,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Request is a single question to the assistant.
type Request struct {
	Topic        string `json:"topic"`
	Query        string `json:"query"`
	IncludeAudio bool   `json:"includeAudio"`
}

// Reply is the assistant's answer. Image and Audio are empty when not
// requested or when their stage failed; failures are listed in MediaErrors.
type Reply struct {
	Response    string        `json:"response"`
	Image       string        `json:"image,omitempty"`
	Audio       string        `json:"audio,omitempty"`
	MediaErrors []*MediaError `json:"-"`
}

// Warnings returns the media failures as display strings.
func (r *Reply) Warnings() []string {
	if len(r.MediaErrors) == 0 {
		return nil
	}
	out := make([]string, len(r.MediaErrors))
	for i, e := range r.MediaErrors {
		out[i] = e.Warning()
	}
	return out
}
