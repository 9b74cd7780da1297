package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const RecipientsSequence = `
	CREATE SEQUENCE IF NOT EXISTS recipients_seq START 1;
`

const RecipientsTableSchema = `
	CREATE TABLE IF NOT EXISTS recipients (
		id VARCHAR PRIMARY KEY,
		position BIGINT NOT NULL DEFAULT nextval('recipients_seq'),
		added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

var bootQueries = []string{
	RecipientsSequence,
	RecipientsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
