package repository

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

func TestWriteConversation_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteConversation(&buf, nil))

	assert.JSONEq(t, `[]`, buf.String())
}

func TestWriteConversation_DoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteConversation(&buf, []domain.Message{{Role: domain.RoleUser, Content: "<b>&</b>"}}))

	assert.Contains(t, buf.String(), "<b>&</b>")
}

func TestConversationFileRepository_SaveLoad(t *testing.T) {
	repo, err := NewConversationFileRepository(filepath.Join(t.TempDir(), "conversations"))
	require.NoError(t, err)

	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "Привет"},
		{Role: domain.RoleAssistant, Content: "hello"},
	}

	file, err := repo.Save("chat1", msgs)
	require.NoError(t, err)
	assert.Equal(t, "chat1.json", file)

	loaded, err := repo.Load(file)
	require.NoError(t, err)
	assert.Equal(t, msgs, loaded)

	loaded, err = repo.Load("chat1")
	require.NoError(t, err)
	assert.Equal(t, msgs, loaded)
}

func TestConversationFileRepository_ConfinesPaths(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewConversationFileRepository(dir)
	require.NoError(t, err)

	file, err := repo.Save("../../escape", nil)
	require.NoError(t, err)

	assert.Equal(t, "escape.json", file)
	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err)
}

func TestConversationFileRepository_LoadMissing(t *testing.T) {
	repo, err := NewConversationFileRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Load("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationFileRepository_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewConversationFileRepository(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"not":"an array"}`), 0o644))

	_, err = repo.Load("bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
