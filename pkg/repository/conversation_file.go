package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

// WriteConversation encodes messages as a bare, indented JSON array.
func WriteConversation(w io.Writer, messages []domain.Message) error {
	if messages == nil {
		messages = []domain.Message{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(messages); err != nil {
		return fmt.Errorf("encoding conversation: %w", err)
	}
	return nil
}

// ReadConversation decodes a JSON array of messages. Roles are not validated.
func ReadConversation(r io.Reader) ([]domain.Message, error) {
	var messages []domain.Message
	if err := json.NewDecoder(r).Decode(&messages); err != nil {
		return nil, fmt.Errorf("decoding conversation: %w", err)
	}
	return messages, nil
}

type conversationFileRepository struct {
	dir string
}

func NewConversationFileRepository(dir string) (*conversationFileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensuring conversation dir: %w", err)
	}
	return &conversationFileRepository{dir: dir}, nil
}

// path confines name to the repository directory.
func (r *conversationFileRepository) path(name string) string {
	name = filepath.Base(filepath.Clean("/" + name))
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(r.dir, name)
}

func (r *conversationFileRepository) Save(name string, messages []domain.Message) (string, error) {
	path := r.path(name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating conversation file: %w", err)
	}
	defer f.Close()

	if err := WriteConversation(f, messages); err != nil {
		return "", err
	}

	return filepath.Base(path), nil
}

func (r *conversationFileRepository) Load(name string) ([]domain.Message, error) {
	f, err := os.Open(r.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("opening conversation file: %w", err)
	}
	defer f.Close()

	return ReadConversation(f)
}
