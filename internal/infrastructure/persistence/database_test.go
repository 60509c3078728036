package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase wraps a sqlmock connection in a Database so pool and
// lifecycle methods can be exercised without a server.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("ping reaches the underlying connection", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()

		// gorm pings once during Open
		mock.ExpectPing()

		gormDB, err := gorm.Open(postgres.New(postgres.Config{
			Conn:       mockDB,
			DriverName: "postgres",
		}), &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)

		db := &Database{DB: gormDB}

		mock.ExpectPing()
		require.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDatabase_Queries verifies queries flow through the wrapped gorm DB
// with the connection settings applied at Open.
func TestDatabase_Queries(t *testing.T) {
	type Member struct {
		ID           uint
		MemberNumber string
		Status       string
	}

	t.Run("filtered query with ordering", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "members" WHERE status = \$1 ORDER BY member_number ASC`).
			WithArgs("ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "member_number", "status"}).
				AddRow(1, "KOP-0001", "ACTIVE").
				AddRow(2, "KOP-0002", "ACTIVE"))

		var results []Member
		err := db.DB.Where("status = ?", "ACTIVE").Order("member_number ASC").Find(&results).Error
		require.NoError(t, err)
		assert.Len(t, results, 2)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query with limit and offset", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "members" LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "member_number"}).
				AddRow(6, "KOP-0006"))

		var results []Member
		err := db.DB.Limit(10).Offset(5).Find(&results).Error
		require.NoError(t, err)
		assert.Len(t, results, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
