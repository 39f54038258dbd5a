package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ   = `(?s)^INSERT\s+INTO\s+attendance\s*\(id,.*verified\)\s*VALUES\s*\(\$1,.*\$9\)\s*$`
	getQ      = `(?s)^SELECT\s+id,.*FROM\s+attendance\s+WHERE\s+employee_id\s*=\s*\$1\s+AND\s+date\s*=\s*\$2\s*$`
	closeOutQ = `(?s)^UPDATE\s+attendance\s+SET\s+out_time\s*=\s*\$1,\s*out_at\s*=\s*\$2\s+WHERE\s+employee_id\s*=\s*\$3\s+AND\s+date\s*=\s*\$4\s+AND\s+out_at\s+IS\s+NULL\s*$`
)

var (
	inAt    = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	columns = []string{"id", "employee_id", "display_name", "date", "in_time", "in_at", "out_time", "out_at", "status", "source_slot", "verified"}
)

func sampleRecord() *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID: "2f1c7c1e-0000-4000-8000-000000000001", EmployeeID: "E1", DisplayName: "Alice",
		Date: "2026-10-14", InTime: "09:00:00", InAt: inAt,
		Status: common.StatusPresent, SourceSlot: 1791968400, Verified: true,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	r := sampleRecord()
	mock.ExpectExec(insertQ).
		WithArgs(r.ID, "E1", "Alice", "2026-10-14", "09:00:00", inAt, common.StatusPresent, int64(1791968400), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), r))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_employee_date_key"})

	err := repo.Create(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestGet_OpenRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("id-1", "E1", "Alice", "2026-10-14", "09:00:00", inAt, nil, nil, common.StatusPresent, int64(10), true)
	mock.ExpectQuery(getQ).WithArgs("E1", "2026-10-14").WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "E1", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.Nil(t, rec.OutTime)
	assert.False(t, rec.CheckedOut())
}

func TestGet_ClosedRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	outAt := inAt.Add(8 * time.Hour)
	rows := sqlmock.NewRows(columns).
		AddRow("id-1", "E1", "Alice", "2026-10-14", "09:00:00", inAt, "17:00:00", outAt, common.StatusPresent, int64(10), true)
	mock.ExpectQuery(getQ).WithArgs("E1", "2026-10-14").WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "E1", "2026-10-14")
	require.NoError(t, err)
	require.NotNil(t, rec.OutTime)
	assert.Equal(t, "17:00:00", *rec.OutTime)
	assert.True(t, rec.CheckedOut())
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("E1", "2026-10-14").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "E1", "2026-10-14")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCloseOut(t *testing.T) {
	outAt := inAt.Add(8 * time.Hour)

	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{"closed", 1, nil},
		{"no open record", 0, common.ErrorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(closeOutQ).
				WithArgs("17:00:00", outAt, "E1", "2026-10-14").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.CloseOut(context.Background(), "E1", "2026-10-14", "17:00:00", outAt)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_BuildsFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("id-1", "E1", "Alice", "2026-10-14", "09:00:00", inAt, nil, nil, common.StatusPresent, int64(10), true).
		AddRow("id-2", "E2", "Bob", "2026-10-14", "09:05:00", inAt.Add(5*time.Minute), nil, nil, common.StatusPresent, int64(11), true)
	mock.ExpectQuery(`(?s)FROM\s+attendance\s+WHERE\s+date\s*=\s*\$1\s+AND\s+status\s*=\s*\$2\s+ORDER\s+BY\s+date,\s*in_at$`).
		WithArgs("2026-10-14", common.StatusPresent).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.AttendanceFilter{Date: "2026-10-14", Status: common.StatusPresent})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "E2", list[1].EmployeeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+attendance\s+ORDER\s+BY\s+date,\s*in_at$`).
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.List(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+attendance`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), models.AttendanceFilter{})
	require.Error(t, err)
}
