package repomanager

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
)

// MemoryManager keeps everything in process memory. Data is lost on exit.
type MemoryManager struct {
	users    *users.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryManager() *MemoryManager {
	store := memstore.New()
	return &MemoryManager{
		users:    users.NewMemoryRepository(store),
		messages: messages.NewMemoryRepository(store),
	}
}

func (m *MemoryManager) RunMigrations(ctx context.Context) error { return nil }
func (m *MemoryManager) Users() users.Repository                  { return m.users }
func (m *MemoryManager) Messages() messages.Repository            { return m.messages }
func (m *MemoryManager) Close(ctx context.Context) error          { return nil }
