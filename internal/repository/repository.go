package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

// Repository собирает все Postgres-репозитории поверх одного пула
type Repository struct {
	db       *pgxpool.Pool
	User     UserRepository
	Gallery  GalleryRepository
	Photo    PhotoRepository
	Feedback FeedbackRepository
	Product  ProductRepository
	Order    OrderRepository
	Blog     BlogRepository
	Contact  ContactRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepository(db),
		Gallery:  NewGalleryRepo(db),
		Photo:    NewPhotoRepo(db),
		Feedback: NewFeedbackRepo(db),
		Product:  NewProductRepo(db),
		Order:    NewOrderRepo(db),
		Blog:     NewBlogRepository(db),
		Contact:  NewContactRepo(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
