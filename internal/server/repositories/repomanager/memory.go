package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/employees"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/serverkeys"
)

// MemoryRepositoryManager hands out process-local repositories. The db
// argument of every factory is ignored; the same instances are returned on
// each call so that state is shared across units of work. The server
// identity is kept in a JSON file.
type MemoryRepositoryManager struct {
	employees  *employees.MemoryRepository
	attendance *attendance.MemoryRepository
	serverKeys *serverkeys.FileRepository
}

func NewMemoryRepositoryManager(keyFile string) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		employees:  employees.NewMemoryRepository(),
		attendance: attendance.NewMemoryRepository(),
		serverKeys: serverkeys.NewFileRepository(keyFile),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Employees(dbx.DBTX) employees.Repository { return m.employees }

func (m *MemoryRepositoryManager) Attendance(dbx.DBTX) attendance.Repository { return m.attendance }

func (m *MemoryRepositoryManager) ServerKeys(dbx.DBTX) serverkeys.Repository { return m.serverKeys }
