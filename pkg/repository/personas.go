package repository

import (
	"github.com/samber/lo"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

var personas = map[string]domain.Persona{
	"default": {
		Name:         "Default Assistant",
		SystemPrompt: "You are a helpful and friendly AI assistant created by RSK World (https://rskworld.in).",
		Description:  "A general-purpose helpful assistant",
	},
	"coding": {
		Name:         "Coding Assistant",
		SystemPrompt: "You are an expert programming assistant created by RSK World. You help with code writing, debugging, and explaining programming concepts. Always provide clear, well-commented code examples.",
		Description:  "Specialized in programming and code assistance",
	},
	"creative": {
		Name:         "Creative Writer",
		SystemPrompt: "You are a creative writing assistant created by RSK World. You help with storytelling, creative writing, poetry, and imaginative content. Be creative and engaging.",
		Description:  "Helps with creative writing and storytelling",
	},
	"teacher": {
		Name:         "Educational Tutor",
		SystemPrompt: "You are a patient and knowledgeable teacher created by RSK World. You explain concepts clearly, provide examples, and adapt to different learning styles. Make learning enjoyable.",
		Description:  "Educational and teaching assistant",
	},
	"business": {
		Name:         "Business Advisor",
		SystemPrompt: "You are a professional business consultant created by RSK World. You provide strategic advice, analyze business problems, and suggest practical solutions. Be professional and data-driven.",
		Description:  "Business and professional consulting",
	},
	"friendly": {
		Name:         "Friendly Chat",
		SystemPrompt: "You are a friendly and conversational AI created by RSK World. You engage in casual conversation, show empathy, and make people feel comfortable. Be warm and approachable.",
		Description:  "Casual and friendly conversations",
	},
	"technical": {
		Name:         "Technical Expert",
		SystemPrompt: "You are a technical expert created by RSK World. You provide detailed technical explanations, troubleshoot problems, and offer in-depth analysis. Be precise and thorough.",
		Description:  "Deep technical expertise and analysis",
	},
	"translator": {
		Name:         "Translation Assistant",
		SystemPrompt: "You are a multilingual translation assistant created by RSK World. You translate text accurately while preserving meaning and context. Support multiple languages.",
		Description:  "Translation and multilingual support",
	},
}

var templates = map[string]domain.Template{
	"code_review": {
		Name: "Code Review",
		Messages: []domain.Message{{
			Role:    domain.RoleUser,
			Content: "Please review this code and provide feedback on best practices, potential improvements, and any issues.",
		}},
	},
	"explain_concept": {
		Name: "Explain Concept",
		Messages: []domain.Message{{
			Role:    domain.RoleUser,
			Content: "Can you explain this concept in simple terms with examples?",
		}},
	},
	"brainstorm": {
		Name: "Brainstorming",
		Messages: []domain.Message{{
			Role:    domain.RoleUser,
			Content: "Let's brainstorm ideas for:",
		}},
	},
	"problem_solving": {
		Name: "Problem Solving",
		Messages: []domain.Message{{
			Role:    domain.RoleUser,
			Content: "I'm facing this problem. Can you help me analyze it and suggest solutions?",
		}},
	},
}

type catalogRepository struct{}

func NewCatalogRepository() *catalogRepository {
	return &catalogRepository{}
}

// Persona resolves key, falling back to the default persona for unknown keys.
func (c *catalogRepository) Persona(key string) domain.Persona {
	p, ok := personas[key]
	if !ok {
		key = domain.DefaultPersonaKey
		p = personas[key]
	}
	p.Key = key
	return p
}

func (c *catalogRepository) Personas() map[string]domain.Persona {
	return lo.MapEntries(personas, func(k string, p domain.Persona) (string, domain.Persona) {
		p.Key = k
		return k, p
	})
}

func (c *catalogRepository) Template(key string) (domain.Template, error) {
	t, ok := templates[key]
	if !ok {
		return domain.Template{}, domain.ErrNotFound
	}
	t.Key = key
	return t, nil
}

func (c *catalogRepository) Templates() map[string]domain.Template {
	return lo.MapEntries(templates, func(k string, t domain.Template) (string, domain.Template) {
		t.Key = k
		return k, t
	})
}
