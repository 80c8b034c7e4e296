// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/slice"
)

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed collection store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var (
	collectionColumns = strings.Join(schema.ContentCollection.Columns(), ", ")
	linkColumns       = strings.Join(schema.ContentCollectionContent.Columns(), ", ")
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// # Collection Lookups

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Collection, error) {
	return findCollection(context, repository.pool, schema.ContentCollection.ID, id, "")
}

func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Collection, error) {
	return findCollection(context, repository.pool, schema.ContentCollection.Slug, slug, "")
}

func (repository *postgresRepository) SlugExists(context context.Context, slug string, excludeID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND ($2::text = '' OR %s::text <> $2::text)
		)
	`,
		schema.ContentCollection.Table,
		schema.ContentCollection.Slug,
		schema.ContentCollection.ID,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check slug: %w", err)
	}
	return exists, nil
}

/*
List returns collections ordered by priority (unset last), then newest first.
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Collection, int, error) {
	var where strings.Builder
	var args []any
	argID := 1

	where.WriteString(" WHERE TRUE")

	// Type filtering
	if len(filter.Types) > 0 {
		where.WriteString(fmt.Sprintf(" AND %s = ANY($%d::text[])", schema.ContentCollection.Type, argID))
		args = append(args, slice.Map(filter.Types, func(collectionType Type) string { return string(collectionType) }))
		argID++
	}

	// Visibility filtering
	if filter.Visible != nil {
		where.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ContentCollection.Visible, argID))
		args = append(args, *filter.Visible)
		argID++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, schema.ContentCollection.Table, where.String())

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to count collections: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC NULLS LAST, %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		collectionColumns,
		schema.ContentCollection.Table,
		where.String(),
		schema.ContentCollection.Priority,
		schema.ContentCollection.CreatedAt,
		schema.ContentCollection.ID,
		argID, argID+1,
	)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []*Collection
	for rows.Next() {
		collection, err := scanCollection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan collection: %w", err)
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate collections: %w", err)
	}

	return collections, total, nil
}

// # Collection Writes

func (repository *postgresRepository) Create(context context.Context, collection *Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, schema.ContentCollection.Table, collectionColumns)

	_, err := repository.pool.Exec(context, query,
		collection.ID,
		collection.Type,
		collection.Title,
		collection.Slug,
		collection.Description,
		collection.Location,
		collection.Visible,
		collection.Priority,
		collection.ContentPerPage,
		collection.IsPasswordProtected,
		collection.PasswordHash,
		collection.TotalContent,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.ContentCollectionSlugConstraint) {
			return ErrSlugTaken
		}
		return fmt.Errorf("postgres: failed to create collection: %w", err)
	}

	return nil
}

func (repository *postgresRepository) Update(context context.Context, collection *Collection) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = $8, %s = $9, %s = $10, %s = $11, %s = $12
		WHERE %s = $1
	`,
		schema.ContentCollection.Table,
		schema.ContentCollection.Type,
		schema.ContentCollection.Title,
		schema.ContentCollection.Slug,
		schema.ContentCollection.Description,
		schema.ContentCollection.Location,
		schema.ContentCollection.Visible,
		schema.ContentCollection.Priority,
		schema.ContentCollection.ContentPerPage,
		schema.ContentCollection.IsPasswordProtected,
		schema.ContentCollection.PasswordHash,
		schema.ContentCollection.UpdatedAt,
		schema.ContentCollection.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		collection.ID,
		collection.Type,
		collection.Title,
		collection.Slug,
		collection.Description,
		collection.Location,
		collection.Visible,
		collection.Priority,
		collection.ContentPerPage,
		collection.IsPasswordProtected,
		collection.PasswordHash,
		collection.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.ContentCollectionSlugConstraint) {
			return ErrSlugTaken
		}
		return fmt.Errorf("postgres: failed to update collection: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Collection")
	}

	return nil
}

/*
Delete removes the collection in one transaction. Placements go with it
through ON DELETE CASCADE; content rows left without any placement are
deleted afterwards.
*/
func (repository *postgresRepository) Delete(context context.Context, id string) ([]string, error) {
	var orphans []string

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		linkedQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
			schema.ContentCollectionContent.ContentID,
			schema.ContentCollectionContent.Table,
			schema.ContentCollectionContent.CollectionID,
		)

		rows, err := transaction.Query(context, linkedQuery, id)
		if err != nil {
			return fmt.Errorf("postgres: failed to list placements: %w", err)
		}
		linked, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("postgres: failed to scan placements: %w", err)
		}

		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.ContentCollection.Table, schema.ContentCollection.ID,
		)
		tag, err := transaction.Exec(context, deleteQuery, id)
		if err != nil {
			return fmt.Errorf("postgres: failed to delete collection: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Collection")
		}

		if len(linked) == 0 {
			return nil
		}

		orphanQuery := fmt.Sprintf(`
			DELETE FROM %s c
			WHERE c.%s = ANY($1::uuid[])
			  AND NOT EXISTS (SELECT 1 FROM %s cc WHERE cc.%s = c.%s)
			RETURNING c.%s::text
		`,
			schema.ContentContent.Table,
			schema.ContentContent.ID,
			schema.ContentCollectionContent.Table,
			schema.ContentCollectionContent.ContentID,
			schema.ContentContent.ID,
			schema.ContentContent.ID,
		)

		rows, err = transaction.Query(context, orphanQuery, linked)
		if err != nil {
			return fmt.Errorf("postgres: failed to delete orphaned content: %w", err)
		}
		orphans, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("postgres: failed to scan orphaned content: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orphans, nil
}

// # Placement Reads

func (repository *postgresRepository) ListLinks(context context.Context, collectionID string, includeHidden bool, limit, offset int) ([]*Link, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND ($2 OR %s)
		ORDER BY %s ASC, %s ASC
		LIMIT $3 OFFSET $4
	`,
		linkColumns,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.Visible,
		schema.ContentCollectionContent.OrderIndex,
		schema.ContentCollectionContent.ID,
	)

	rows, err := repository.pool.Query(context, query, collectionID, includeHidden, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list placements: %w", err)
	}
	return collectLinks(rows)
}

func (repository *postgresRepository) CountLinks(context context.Context, collectionID string, includeHidden bool) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND ($2 OR %s)`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.Visible,
	)

	var total int
	if err := repository.pool.QueryRow(context, query, collectionID, includeHidden).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count placements: %w", err)
	}
	return total, nil
}

func (repository *postgresRepository) CountByKind(context context.Context, collectionID string, includeHidden bool) (Counts, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, COUNT(*)
		FROM %s cc
		JOIN %s c ON c.%s = cc.%s
		WHERE cc.%s = $1 AND ($2 OR cc.%s)
		GROUP BY c.%s
	`,
		schema.ContentContent.Kind,
		schema.ContentCollectionContent.Table,
		schema.ContentContent.Table,
		schema.ContentContent.ID,
		schema.ContentCollectionContent.ContentID,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.Visible,
		schema.ContentContent.Kind,
	)

	var counts Counts
	rows, err := repository.pool.Query(context, query, collectionID, includeHidden)
	if err != nil {
		return counts, fmt.Errorf("postgres: failed to count content kinds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var total int
		if err := rows.Scan(&kind, &total); err != nil {
			return counts, fmt.Errorf("postgres: failed to scan content kind: %w", err)
		}
		counts.Add(content.Kind(kind), total)
	}

	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("postgres: failed to iterate content kinds: %w", err)
	}
	return counts, nil
}

func (repository *postgresRepository) CountLinksForContent(context context.Context, contentID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.ContentID,
	)

	var total int
	if err := repository.pool.QueryRow(context, query, contentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to count placements: %w", err)
	}
	return total, nil
}

// # Unit Of Work

/*
WithPlacements locks the collection row with SELECT ... FOR UPDATE and runs
fn against placements bound to the same transaction.
*/
func (repository *postgresRepository) WithPlacements(context context.Context, collectionID string, fn func(collection *Collection, placements Placements) error) error {
	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		collection, err := findCollection(context, transaction, schema.ContentCollection.ID, collectionID, "FOR UPDATE")
		if err != nil {
			return err
		}

		if err := fn(collection, &postgresPlacements{transaction: transaction, collectionID: collectionID}); err != nil {
			return err
		}

		// Check the deferred order constraint here so a violation is classified.
		immediate := fmt.Sprintf(`SET CONSTRAINTS %s.%s IMMEDIATE`, constants.SchemaContent, schema.ContentCollectionContentOrderConstraint)
		if _, err := transaction.Exec(context, immediate); err != nil {
			if dberr.IsUniqueViolation(err, schema.ContentCollectionContentOrderConstraint) {
				return apperr.Conflict("Two placements share an order index")
			}
			return fmt.Errorf("postgres: failed to check placement order: %w", err)
		}

		query := fmt.Sprintf(`
			UPDATE %s SET %s = (SELECT COUNT(*) FROM %s WHERE %s = $1)
			WHERE %s = $1
		`,
			schema.ContentCollection.Table,
			schema.ContentCollection.TotalContent,
			schema.ContentCollectionContent.Table,
			schema.ContentCollectionContent.CollectionID,
			schema.ContentCollection.ID,
		)

		if _, err := transaction.Exec(context, query, collectionID); err != nil {
			return fmt.Errorf("postgres: failed to refresh content total: %w", err)
		}
		return nil
	})
}

// postgresPlacements implements [Placements] inside one transaction.
type postgresPlacements struct {
	transaction  pgx.Tx
	collectionID string
}

func (placements *postgresPlacements) All(context context.Context) ([]*Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		linkColumns,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.OrderIndex,
		schema.ContentCollectionContent.ID,
	)

	rows, err := placements.transaction.Query(context, query, placements.collectionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list placements: %w", err)
	}
	return collectLinks(rows)
}

func (placements *postgresPlacements) Find(context context.Context, contentID string) (*Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		linkColumns,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.ContentID,
	)

	link, err := scanLink(placements.transaction.QueryRow(context, query, placements.collectionID, contentID))
	if err != nil {
		return nil, dberr.Wrap(err, "Placement")
	}
	return link, nil
}

func (placements *postgresPlacements) MaxOrderIndex(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), -1) FROM %s WHERE %s = $1`,
		schema.ContentCollectionContent.OrderIndex,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
	)

	var maxIndex int
	if err := placements.transaction.QueryRow(context, query, placements.collectionID).Scan(&maxIndex); err != nil {
		return 0, fmt.Errorf("postgres: failed to read max order index: %w", err)
	}
	return maxIndex, nil
}

func (placements *postgresPlacements) Insert(context context.Context, link *Link) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.ContentCollectionContent.Table, linkColumns,
	)

	_, err := placements.transaction.Exec(context, query,
		link.ID, link.CollectionID, link.ContentID, link.OrderIndex, link.Visible, link.Caption, link.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.ContentCollectionContentPlacementConstraint):
		return apperr.Conflict("Content is already placed in this collection")
	case dberr.IsUniqueViolation(err, schema.ContentCollectionContentOrderConstraint):
		return apperr.Conflict(fmt.Sprintf("Order index %d is already in use", link.OrderIndex))
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFound("Content")
	default:
		return fmt.Errorf("postgres: failed to insert placement: %w", err)
	}
}

func (placements *postgresPlacements) Update(context context.Context, link *Link) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.Visible,
		schema.ContentCollectionContent.Caption,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.ContentID,
	)

	tag, err := placements.transaction.Exec(context, query, placements.collectionID, link.ContentID, link.Visible, link.Caption)
	if err != nil {
		return fmt.Errorf("postgres: failed to update placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Placement")
	}
	return nil
}

func (placements *postgresPlacements) Remove(context context.Context, contentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.ContentID,
	)

	tag, err := placements.transaction.Exec(context, query, placements.collectionID, contentID)
	if err != nil {
		return fmt.Errorf("postgres: failed to remove placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Placement")
	}
	return nil
}

/*
UpdateOrderIndices rewrites every index in a single UPDATE ... FROM unnest.
The order index constraint is deferred until WithPlacements forces it, so
swaps or rotations inside one batch never trip it midway.
*/
func (placements *postgresPlacements) UpdateOrderIndices(context context.Context, indices map[string]int) error {
	if len(indices) == 0 {
		return nil
	}

	contentIDs := make([]string, 0, len(indices))
	orderIndices := make([]int32, 0, len(indices))
	for contentID, orderIndex := range indices {
		contentIDs = append(contentIDs, contentID)
		orderIndices = append(orderIndices, int32(orderIndex))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = ANY($2::uuid[])`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.ContentID,
	)

	var placed int
	if err := placements.transaction.QueryRow(context, countQuery, placements.collectionID, contentIDs).Scan(&placed); err != nil {
		return fmt.Errorf("postgres: failed to check placements: %w", err)
	}
	if placed != len(contentIDs) {
		return ErrLinkMissing
	}

	query := fmt.Sprintf(`
		UPDATE %s cc SET %s = batch.orderindex
		FROM unnest($2::uuid[], $3::int[]) AS batch(contentid, orderindex)
		WHERE cc.%s = $1 AND cc.%s = batch.contentid
	`,
		schema.ContentCollectionContent.Table,
		schema.ContentCollectionContent.OrderIndex,
		schema.ContentCollectionContent.CollectionID,
		schema.ContentCollectionContent.ContentID,
	)

	_, err := placements.transaction.Exec(context, query, placements.collectionID, contentIDs, orderIndices)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.ContentCollectionContentOrderConstraint) {
			return apperr.ValidationError("Reorder would give two placements the same order index")
		}
		return fmt.Errorf("postgres: failed to reorder placements: %w", err)
	}
	return nil
}

// # Scanning

// findCollection loads one collection by column, with an optional locking clause.
func findCollection(context context.Context, db querier, column, value, lock string) (*Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 %s`,
		collectionColumns, schema.ContentCollection.Table, column, lock,
	)

	collection, err := scanCollection(db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Collection")
	}
	return collection, nil
}

// scanCollection reads one row in [collectionColumns] order.
func scanCollection(row pgx.Row) (*Collection, error) {
	collection := &Collection{}
	err := row.Scan(
		&collection.ID,
		&collection.Type,
		&collection.Title,
		&collection.Slug,
		&collection.Description,
		&collection.Location,
		&collection.Visible,
		&collection.Priority,
		&collection.ContentPerPage,
		&collection.IsPasswordProtected,
		&collection.PasswordHash,
		&collection.TotalContent,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// scanLink reads one row in [linkColumns] order.
func scanLink(row pgx.Row) (*Link, error) {
	link := &Link{}
	err := row.Scan(
		&link.ID,
		&link.CollectionID,
		&link.ContentID,
		&link.OrderIndex,
		&link.Visible,
		&link.Caption,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

func collectLinks(rows pgx.Rows) ([]*Link, error) {
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan placement: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate placements: %w", err)
	}
	return links, nil
}
