package recipients

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func TestRecipientStore_RoundTrip(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	// Given
	added, err := f.store.Add(ctx, "300", "100", " ", "200", "100")
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	// When
	ids, err := f.store.ListRecipients(ctx)

	// Then insertion order is kept
	require.NoError(t, err)
	assert.Equal(t, []string{"300", "100", "200"}, ids)

	all, err := f.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[0].AddedAt.IsZero())
}

func TestRecipientStore_Remove(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	_, err := f.store.Add(ctx, "1", "2")
	require.NoError(t, err)

	removed, err := f.store.Remove(ctx, "1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.store.Remove(ctx, "1")
	require.NoError(t, err)
	assert.False(t, removed)

	ids, err := f.store.ListRecipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)
}

func TestRecipientStore_Empty(t *testing.T) {
	f := setupFixture(t)

	ids, err := f.store.ListRecipients(context.Background())

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestRecipientStore_AddInTransaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := duckdb.InTransaction(ctx, f.db, func(ctx context.Context) error {
		if _, err := f.store.Add(ctx, "7", "8"); err != nil {
			return err
		}
		return errors.New("abort import")
	})
	require.Error(t, err)

	ids, err := f.store.ListRecipients(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecipientStore_Add_SQL(t *testing.T) {
	// Given: a sqlmock DB where the second insert fails
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	insert := regexp.QuoteMeta(`INSERT INTO recipients (id) VALUES (?) ON CONFLICT DO NOTHING`)
	mock.ExpectExec(insert).WithArgs("42").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WithArgs("43").WillReturnError(errors.New("disk full"))

	s, err := NewStore(db)
	require.NoError(t, err)

	// When
	added, err := s.Add(context.Background(), "42", "43", "44")

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert recipient 43")
	assert.Equal(t, 1, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStore_List_SQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, added_at`)).
		WillReturnError(errors.New("connection reset"))

	s, err := NewStore(db)
	require.NoError(t, err)

	_, err = s.ListRecipients(context.Background())

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
