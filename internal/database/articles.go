package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"newsdesk/internal/article"
	"newsdesk/internal/query"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const articleColumns = "id, title, slug, excerpt, content, author, category, tags, image_url, published_at, updated_at, featured, source, source_url, source_domain"

// CreateSkipDuplicate inserts an article unless one with the same slug or id
// already exists. The conflict clause is targetless so re-fetched articles
// whose title (and therefore slug) changed but whose id did not are skipped
// rather than raising a primary-key violation. It reports whether a row was
// written; an existing article is never overwritten.
func (db *DB) CreateSkipDuplicate(ctx context.Context, a article.Article) (bool, error) {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT DO NOTHING
	`

	tag, err := db.pool.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.Excerpt,
		a.Content,
		a.Author,
		string(a.Category),
		a.Tags,
		a.ImageURL,
		a.PublishedAt,
		a.UpdatedAt,
		a.Featured,
		a.Source,
		a.SourceURL,
		a.SourceDomain,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create article: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// FindBySlug retrieves a single article. A missing slug is not an error.
func (db *DB) FindBySlug(ctx context.Context, slug string) (*article.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	row := db.pool.QueryRow(ctx, q, slug)
	a, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	return &a, nil
}

// FindMany returns one page of articles matching the filters.
func (db *DB) FindMany(ctx context.Context, filters query.Filters, sort query.Sort, offset, limit int) ([]article.Article, error) {
	builder := applyFilters(psql.Select(articleColumns).From("articles"), filters).
		OrderBy(orderClause(sort)).
		Offset(uint64(offset)).
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []article.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}

// Count returns how many articles match the filters.
func (db *DB) Count(ctx context.Context, filters query.Filters) (int, error) {
	sql, args, err := applyFilters(psql.Select("COUNT(*)").From("articles"), filters).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := db.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

// DeleteOlderThan prunes stored articles whose published_at predates the
// cutoff, returning how many rows were removed.
func (db *DB) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := psql.Delete("articles").Where(sq.Lt{"published_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}

	return tag.RowsAffected(), nil
}

func applyFilters(builder sq.SelectBuilder, filters query.Filters) sq.SelectBuilder {
	if filters.Category != "" {
		builder = builder.Where(sq.Eq{"category": string(filters.Category)})
	}
	if filters.Featured != nil {
		builder = builder.Where(sq.Eq{"featured": *filters.Featured})
	}
	if len(filters.Tags) > 0 {
		builder = builder.Where("tags && ?", filters.Tags)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"excerpt": pattern},
			sq.ILike{"content": pattern},
		})
	}
	return builder
}

func orderClause(sort query.Sort) string {
	switch sort {
	case query.SortOldest:
		return "published_at ASC"
	case query.SortTitle:
		return "LOWER(title) ASC"
	default:
		return "published_at DESC"
	}
}

func scanArticle(row pgx.Row) (article.Article, error) {
	var a article.Article
	var category string
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Excerpt,
		&a.Content,
		&a.Author,
		&category,
		&a.Tags,
		&a.ImageURL,
		&a.PublishedAt,
		&a.UpdatedAt,
		&a.Featured,
		&a.Source,
		&a.SourceURL,
		&a.SourceDomain,
	)
	a.Category = article.Category(category)
	return a, err
}
