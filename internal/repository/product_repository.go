package repository

import (
	"context"
	"errors"
	"fmt"

	"lightbox/internal/domain/models"
	"lightbox/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProductRepo каталог печатной продукции; источник истины для цен при оформлении заказа
type ProductRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error) {
	const op = "repository.ProductRepo.ListActiveVariants"

	query, args, err := r.sb.Select("id", "product_name", "size", "price", "active").
		From("product_variants").
		Where(squirrel.Eq{"active": true}).
		OrderBy("product_name", "price").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	variants := []models.ProductVariant{}
	for rows.Next() {
		var v models.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductName, &v.Size, &v.Price, &v.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

func (r *ProductRepo) GetVariant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error) {
	const op = "repository.ProductRepo.GetVariant"

	query, args, err := r.sb.Select("id", "product_name", "size", "price", "active").
		From("product_variants").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.ProductVariant{}, fmt.Errorf("%s: %w", op, err)
	}

	var v models.ProductVariant
	err = r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.ProductName, &v.Size, &v.Price, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ProductVariant{}, fmt.Errorf("%s: %w", op, storage.ErrVariantNotFound)
		}
		return models.ProductVariant{}, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}
