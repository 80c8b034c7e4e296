// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx. Payloads are stored
// as jsonb next to their kind tag.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed content store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectColumns is the projection shared by every read.
var selectColumns = strings.Join(schema.ContentContent.Columns(), ", ")

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.ContentContent.Table, schema.ContentContent.ID,
	)

	record, err := scanRecord(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Content")
	}

	return FromRecord(record)
}

/*
FindByIDs resolves a batch of ids with a single ANY($1) lookup.
*/
func (repository *postgresRepository) FindByIDs(context context.Context, ids []string) (map[string]*Content, error) {
	items := make(map[string]*Content, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1::uuid[])`,
		selectColumns, schema.ContentContent.Table, schema.ContentContent.ID,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to find contents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan content: %w", err)
		}

		item, err := FromRecord(record)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate contents: %w", err)
	}

	return items, nil
}

func (repository *postgresRepository) Create(context context.Context, item *Content) error {
	record, err := ToRecord(item)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.ContentContent.Table,
		schema.ContentContent.ID,
		schema.ContentContent.Kind,
		schema.ContentContent.Caption,
		schema.ContentContent.Description,
		schema.ContentContent.Payload,
		schema.ContentContent.CreatedAt,
		schema.ContentContent.UpdatedAt,
	)

	_, err = repository.pool.Exec(context, query,
		record.ID, record.Kind, record.Caption, record.Description, record.Payload, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create content: %w", err)
	}

	return nil
}

func (repository *postgresRepository) Update(context context.Context, item *Content) error {
	record, err := ToRecord(item)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.ContentContent.Table,
		schema.ContentContent.Caption,
		schema.ContentContent.Description,
		schema.ContentContent.Payload,
		schema.ContentContent.UpdatedAt,
		schema.ContentContent.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		record.ID, record.Caption, record.Description, record.Payload, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update content: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Content")
	}

	return nil
}

/*
Delete removes a content row. The composition table references content with
ON DELETE RESTRICT, so a placement added concurrently surfaces as a conflict
rather than a dangling link.
*/
func (repository *postgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentContent.Table, schema.ContentContent.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return apperr.Conflict("Content is still placed in a collection")
		}
		return fmt.Errorf("postgres: failed to delete content: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Content")
	}

	return nil
}

// scanRecord reads one row in [selectColumns] order.
func scanRecord(row pgx.Row) (Record, error) {
	var record Record
	err := row.Scan(
		&record.ID,
		&record.Kind,
		&record.Caption,
		&record.Description,
		&record.Payload,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	return record, err
}
