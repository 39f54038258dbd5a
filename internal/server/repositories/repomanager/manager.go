package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/employees"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/serverkeys"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Employees(db dbx.DBTX) employees.Repository
	Attendance(db dbx.DBTX) attendance.Repository
	ServerKeys(db dbx.DBTX) serverkeys.Repository
}
