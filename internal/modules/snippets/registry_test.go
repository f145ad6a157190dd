package snippets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/domain"
)

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry([]domain.Snippet{
		{ID: "cli", Language: "bash", Code: "python run.py backtest"},
		{ID: "ledger", Language: "sql", Code: "SELECT 1;"},
	})
	require.NoError(t, err)

	s, err := reg.Get("ledger")
	require.NoError(t, err)
	assert.Equal(t, "sql", s.Language)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownSnippet)

	assert.Equal(t, []string{"cli", "ledger"}, reg.IDs())
	assert.Len(t, reg.All(), 2)
}

func TestNewRegistry_Rejects(t *testing.T) {
	_, err := NewRegistry([]domain.Snippet{{ID: ""}})
	assert.Error(t, err)

	_, err = NewRegistry([]domain.Snippet{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
}
