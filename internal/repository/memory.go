package repository

import (
	"context"
	"sync"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

// MemoryStore implémente tous les dépôts en mémoire (STORE_BACKEND=memory et tests).
type MemoryStore struct {
	mu           sync.RWMutex
	products     map[gocql.UUID]models.Product
	categories   map[gocql.UUID]models.Category
	discounts    map[gocql.UUID]map[gocql.UUID]models.Discount
	cart         map[string]map[gocql.UUID]models.CartItem
	wishlist     map[string]map[gocql.UUID]models.WishlistItem
	users        map[string]models.User
	usersByEmail map[string]string
	audit        map[string][]models.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:     make(map[gocql.UUID]models.Product),
		categories:   make(map[gocql.UUID]models.Category),
		discounts:    make(map[gocql.UUID]map[gocql.UUID]models.Discount),
		cart:         make(map[string]map[gocql.UUID]models.CartItem),
		wishlist:     make(map[string]map[gocql.UUID]models.WishlistItem),
		users:        make(map[string]models.User),
		usersByEmail: make(map[string]string),
		audit:        make(map[string][]models.AuditEntry),
	}
}

// --- Catalogue ---

func (m *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) GetProduct(_ context.Context, id gocql.UUID) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, apperr.ErrRecordNotFound
	}
	return p, nil
}

func (m *MemoryStore) SaveProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) DeleteProduct(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	delete(m.discounts, id)
	return nil
}

func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) GetCategory(_ context.Context, id gocql.UUID) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return models.Category{}, apperr.ErrRecordNotFound
	}
	return c, nil
}

func (m *MemoryStore) SaveCategory(_ context.Context, c models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) ListDiscounts(_ context.Context, productID gocql.UUID) ([]models.Discount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID := m.discounts[productID]
	out := make([]models.Discount, 0, len(byID))
	for _, d := range byID {
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryStore) SaveDiscount(_ context.Context, d models.Discount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discounts[d.ProductID] == nil {
		m.discounts[d.ProductID] = make(map[gocql.UUID]models.Discount)
	}
	m.discounts[d.ProductID][d.ID] = d
	return nil
}

func (m *MemoryStore) DeleteDiscount(_ context.Context, productID, discountID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.discounts[productID], discountID)
	return nil
}

// --- Panier ---

func (m *MemoryStore) ListItems(_ context.Context, userID string) ([]models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.CartItem, 0, len(m.cart[userID]))
	for _, it := range m.cart[userID] {
		out = append(out, it)
	}
	return out, nil
}

func (m *MemoryStore) GetItem(_ context.Context, userID string, itemID gocql.UUID) (models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.cart[userID][itemID]
	if !ok {
		return models.CartItem{}, apperr.ErrRecordNotFound
	}
	return it, nil
}

func (m *MemoryStore) FindByProduct(_ context.Context, userID string, productID gocql.UUID) (models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.cart[userID] {
		if it.ProductID == productID {
			return it, nil
		}
	}
	return models.CartItem{}, apperr.ErrRecordNotFound
}

func (m *MemoryStore) SaveItem(_ context.Context, item models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart[item.UserID] == nil {
		m.cart[item.UserID] = make(map[gocql.UUID]models.CartItem)
	}
	m.cart[item.UserID][item.ID] = item
	return nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, userID string, itemID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cart[userID], itemID)
	return nil
}

func (m *MemoryStore) ClearItems(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cart, userID)
	return nil
}

// --- Wishlist ---

func (m *MemoryStore) ListProductIDs(_ context.Context, userID string) ([]gocql.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]gocql.UUID, 0, len(m.wishlist[userID]))
	for id := range m.wishlist[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (m *MemoryStore) Contains(_ context.Context, userID string, productID gocql.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.wishlist[userID][productID]
	return ok, nil
}

func (m *MemoryStore) AddItem(_ context.Context, item models.WishlistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wishlist[item.UserID] == nil {
		m.wishlist[item.UserID] = make(map[gocql.UUID]models.WishlistItem)
	}
	m.wishlist[item.UserID][item.ProductID] = item
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, userID string, productID gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wishlist[userID], productID)
	return nil
}

// --- Utilisateurs ---

func (m *MemoryStore) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.usersByEmail[u.Email]; taken {
		return apperr.ErrDuplicate
	}
	m.users[u.ID] = u
	m.usersByEmail[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.usersByEmail[email]
	if !ok {
		return models.User{}, apperr.ErrRecordNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperr.ErrRecordNotFound
	}
	return u, nil
}

// --- Audit ---

func (m *MemoryStore) SaveAudit(_ context.Context, e models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit[e.Resource] = append(m.audit[e.Resource], e)
	return nil
}

// ListAudit renvoie les entrées les plus récentes d'abord.
func (m *MemoryStore) ListAudit(_ context.Context, resource string, limit int) ([]models.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.audit[resource]
	out := make([]models.AuditEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
