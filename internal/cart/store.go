package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrCartNotFound    = errors.New("cart not found")
)

// Storage сохраняет корзину целиком. Load возвращает ErrCartNotFound для неизвестного id
type Storage interface {
	Load(ctx context.Context, id string) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) error
	Delete(ctx context.Context, id string) error
}

type Listener func(models.Cart)

// Store единственный владелец состояния корзины: все изменения проходят через него,
// подписчики получают новое значение после каждой успешной мутации
type Store struct {
	log     *slog.Logger
	storage Storage
	now     func() time.Time

	locks *keyedMutex

	subMu     sync.Mutex
	listeners map[int]Listener
	nextSub   int
}

func NewStore(log *slog.Logger, storage Storage) *Store {
	return &Store{
		log:       log,
		storage:   storage,
		now:       time.Now,
		locks:     newKeyedMutex(),
		listeners: make(map[int]Listener),
	}
}

// Subscribe регистрирует слушателя; возвращает функцию отписки
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) Get(ctx context.Context, id string) (models.Cart, error) {
	const op = "cart.Store.Get"

	cart, err := s.storage.Load(ctx, id)
	if errors.Is(err, ErrCartNotFound) {
		return models.Cart{ID: id, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	return cart, nil
}

// Set заменяет корзину целиком; правила строк те же, что у AddItem
func (s *Store) Set(ctx context.Context, cart models.Cart) error {
	const op = "cart.Store.Set"

	for _, it := range cart.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
		}
	}

	unlock := s.locks.Lock(cart.ID)
	cart.UpdatedAt = s.now().UTC()
	if err := s.storage.Save(ctx, cart); err != nil {
		unlock()
		s.log.Error("failed to save cart", slog.String("op", op), slog.String("cart_id", cart.ID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	unlock()

	s.notify(cart)

	return nil
}

func (s *Store) AddItem(ctx context.Context, id string, item models.CartItem) (models.Cart, error) {
	const op = "cart.Store.AddItem"

	if item.Quantity < 1 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	return s.mutate(ctx, op, id, func(c *models.Cart) error {
		item.ID = uuid.New()
		c.Items = append(c.Items, item)
		return nil
	})
}

func (s *Store) RemoveItem(ctx context.Context, id string, lineID uuid.UUID) (models.Cart, error) {
	const op = "cart.Store.RemoveItem"

	return s.mutate(ctx, op, id, func(c *models.Cart) error {
		idx := indexOf(c.Items, lineID)
		if idx < 0 {
			return ErrItemNotFound
		}
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return nil
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, id string, lineID uuid.UUID, quantity int) (models.Cart, error) {
	const op = "cart.Store.UpdateQuantity"

	if quantity < 1 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	return s.mutate(ctx, op, id, func(c *models.Cart) error {
		idx := indexOf(c.Items, lineID)
		if idx < 0 {
			return ErrItemNotFound
		}
		c.Items[idx].Quantity = quantity
		return nil
	})
}

func (s *Store) Clear(ctx context.Context, id string) error {
	const op = "cart.Store.Clear"

	unlock := s.locks.Lock(id)
	err := s.storage.Delete(ctx, id)
	unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(models.Cart{ID: id, Items: []models.CartItem{}, UpdatedAt: s.now().UTC()})

	return nil
}

// mutate читает, применяет изменение и сохраняет под локом этой корзины,
// чтобы параллельные запросы одной сессии не теряли строки
func (s *Store) mutate(ctx context.Context, op, id string, fn func(*models.Cart) error) (models.Cart, error) {
	unlock := s.locks.Lock(id)
	cart, err := s.Get(ctx, id)
	if err != nil {
		unlock()
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(&cart); err != nil {
		unlock()
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart.UpdatedAt = s.now().UTC()
	if err := s.storage.Save(ctx, cart); err != nil {
		unlock()
		s.log.Error("failed to save cart", slog.String("op", op), slog.String("cart_id", id), sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	unlock()

	s.notify(cart)

	return cart, nil
}

func (s *Store) notify(cart models.Cart) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(cart)
	}
}

func indexOf(items []models.CartItem, lineID uuid.UUID) int {
	for i := range items {
		if items[i].ID == lineID {
			return i
		}
	}
	return -1
}
