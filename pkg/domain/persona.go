package domain

const DefaultPersonaKey = "default"

type Persona struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
	Description  string `json:"description"`
}

type Template struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}
