package repository

import (
	"context"
	"fmt"

	"lightbox/internal/domain/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ContactRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewContactRepo(db *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ContactRepo) SaveContactMessage(ctx context.Context, msg models.ContactMessage) (uuid.UUID, error) {
	const op = "repository.ContactRepo.SaveContactMessage"

	query, args, err := r.sb.Insert("contact_messages").
		Columns("name", "email", "phone", "subject", "message").
		Values(msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
