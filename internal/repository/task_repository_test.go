package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })
	return db, mock
}

// The assignee lookup must check both the scalar mirror column and the
// encoded list column; rows written by older releases only populate one of
// the two.
func TestFindByAssigneeQueriesBothColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`assignee_user_id = \$1 OR assignees LIKE \$2`).
		WithArgs("bob-uid", `%"firebaseUid":"bob-uid"%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "assignees"}).
			AddRow(1, "Legacy row", `[{"firebaseUid":"bob-uid","name":"Bob","email":"bob@example.com","photoUrl":""}]`))

	tasks, err := repo.FindByAssignee("bob-uid")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// AfterFind decodes the raw column.
	require.Len(t, tasks[0].AssigneeList, 1)
	assert.Equal(t, "bob-uid", tasks[0].AssigneeList[0].FirebaseUID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUnassignedByProjectFiltersEmptyAndSentinel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`assignee_user_id IS NULL AND \(assignees = '' OR assignees = \$2\)`).
		WithArgs(uint64(7), "[]").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "assignees"}).
			AddRow(3, "Open", "[]"))

	tasks, err := repo.FindUnassignedByProject(7)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].AssigneeList)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByProjectAndAssignee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WithArgs(uint64(7), "bob-uid", `%"firebaseUid":"bob-uid"%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByProjectAndAssignee(7, "bob-uid")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
