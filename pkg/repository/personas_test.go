package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

func TestCatalogRepository_Persona(t *testing.T) {
	repo := NewCatalogRepository()

	keys := []string{"default", "coding", "creative", "teacher", "business", "friendly", "technical", "translator"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			p := repo.Persona(key)
			assert.Equal(t, key, p.Key)
			assert.NotEmpty(t, p.Name)
			assert.NotEmpty(t, p.SystemPrompt)
		})
	}
}

func TestCatalogRepository_UnknownPersonaFallsBackToDefault(t *testing.T) {
	repo := NewCatalogRepository()

	p := repo.Persona("no-such-persona")

	assert.Equal(t, domain.DefaultPersonaKey, p.Key)
	assert.Equal(t, repo.Persona(domain.DefaultPersonaKey), p)
}

func TestCatalogRepository_PersonasCarryKeys(t *testing.T) {
	repo := NewCatalogRepository()

	all := repo.Personas()

	require.Len(t, all, 8)
	for k, p := range all {
		assert.Equal(t, k, p.Key)
	}
	assert.Contains(t, all, domain.DefaultPersonaKey)
}

func TestCatalogRepository_Template(t *testing.T) {
	repo := NewCatalogRepository()

	for k, tmpl := range repo.Templates() {
		got, err := repo.Template(k)
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)
		assert.NotEmpty(t, got.Messages)
	}

	_, err := repo.Template("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
