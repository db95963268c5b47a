package db

import (
	"errors"
	"io"
	stdlog "log"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	stdlog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const versionQuery = `SELECT version_id, is_applied from goose_db_version ORDER BY id DESC`

func versionRows(applied ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"version_id", "is_applied"})
	for _, v := range applied {
		rows.AddRow(v, true)
	}
	return rows
}

func TestMigrate_FreshDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// таблицы версий ещё нет
	mock.ExpectQuery(versionQuery).WillReturnError(errors.New(`relation "goose_db_version" does not exist`))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE goose_db_version`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO goose_db_version`).WithArgs(int64(0), true).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Assert 00001 создаёт схему, на которую опирается хранилище
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE posts \(.*board TEXT NOT NULL.*view_count BIGINT NOT NULL DEFAULT 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX posts_board_idx ON posts \(board\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE comments \(.*post_id BIGINT NOT NULL REFERENCES posts \(id\)` +
		`.*parent_id BIGINT REFERENCES comments \(id\)` +
		`.*char_length\(content\) <= 2000` +
		`.*is_deleted BOOLEAN NOT NULL DEFAULT FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX comments_post_id_idx ON comments \(post_id, id\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO goose_db_version`).WithArgs(int64(1), true).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	// повторная проверка версии внутри Up и наша после него
	mock.ExpectQuery(versionQuery).WillReturnRows(versionRows(1, 0))
	mock.ExpectQuery(versionQuery).WillReturnRows(versionRows(1, 0))

	require.NoError(t, Migrate(db, migrationsDir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_AlreadyApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(versionQuery).WillReturnRows(versionRows(1, 0))
	mock.ExpectQuery(versionQuery).WillReturnRows(versionRows(1, 0))

	require.NoError(t, Migrate(db, migrationsDir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StatementFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(versionQuery).WillReturnRows(versionRows(0))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE posts`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = Migrate(db, migrationsDir)
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_MissingDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, t.TempDir()+"/nope")
	assert.Error(t, err)
}
