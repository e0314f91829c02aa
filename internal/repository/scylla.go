package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"gopkg.in/inf.v0"
)

// Scylla implémente les dépôts catalogue, panier, wishlist et utilisateurs sur une session gocql.
type Scylla struct {
	session *gocql.Session
}

func NewScylla(session *gocql.Session) *Scylla {
	return &Scylla{session: session}
}

func toInfDec(d decimal.Decimal) *inf.Dec {
	return new(inf.Dec).SetUnscaledBig(d.Coefficient()).SetScale(inf.Scale(-d.Exponent()))
}

func fromInfDec(d *inf.Dec) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(d.UnscaledBig(), -int32(d.Scale()))
}

// optionalUUID renvoie nil pour que gocql écrive NULL.
func optionalUUID(id *gocql.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func notFound(err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return apperr.ErrRecordNotFound
	}
	return err
}

// --- Produits ---

const productColumns = "product_id, name, description, price, image_url, category_id, created_at, updated_at"

func scanProduct(scan func(dest ...interface{}) bool) (models.Product, bool) {
	var (
		p     models.Product
		price = new(inf.Dec)
		catID gocql.UUID
	)
	if !scan(&p.ID, &p.Name, &p.Description, price, &p.ImageURL, &catID, &p.CreatedAt, &p.UpdatedAt) {
		return models.Product{}, false
	}
	p.Price = fromInfDec(price)
	if catID != (gocql.UUID{}) {
		p.CategoryID = &catID
	}
	return p, true
}

func (s *Scylla) ListProducts(ctx context.Context) ([]models.Product, error) {
	iter := s.session.Query("SELECT " + productColumns + " FROM products").WithContext(ctx).Iter()

	var out []models.Product
	for {
		p, ok := scanProduct(iter.Scan)
		if !ok {
			break
		}
		out = append(out, p)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	return out, nil
}

func (s *Scylla) GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error) {
	var scanErr error
	p, ok := scanProduct(func(dest ...interface{}) bool {
		scanErr = s.session.Query("SELECT "+productColumns+" FROM products WHERE product_id = ?", id).
			WithContext(ctx).Scan(dest...)
		return scanErr == nil
	})
	if !ok {
		return models.Product{}, notFound(scanErr)
	}
	return p, nil
}

func (s *Scylla) SaveProduct(ctx context.Context, p models.Product) error {
	return s.session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, toInfDec(p.Price), p.ImageURL, optionalUUID(p.CategoryID), p.CreatedAt, p.UpdatedAt,
	).WithContext(ctx).Exec()
}

// DeleteProduct supprime aussi la partition des réductions du produit.
func (s *Scylla) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query("DELETE FROM products WHERE product_id = ?", id)
	batch.Query("DELETE FROM discounts WHERE product_id = ?", id)
	return s.session.ExecuteBatch(batch)
}

// --- Catégories ---

func (s *Scylla) ListCategories(ctx context.Context) ([]models.Category, error) {
	iter := s.session.Query("SELECT category_id, name, created_at FROM categories").WithContext(ctx).Iter()

	var (
		out []models.Category
		c   models.Category
	)
	for iter.Scan(&c.ID, &c.Name, &c.CreatedAt) {
		out = append(out, c)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture catégories: %w", err)
	}
	return out, nil
}

func (s *Scylla) GetCategory(ctx context.Context, id gocql.UUID) (models.Category, error) {
	var c models.Category
	err := s.session.Query("SELECT category_id, name, created_at FROM categories WHERE category_id = ?", id).
		WithContext(ctx).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return models.Category{}, notFound(err)
	}
	return c, nil
}

func (s *Scylla) SaveCategory(ctx context.Context, c models.Category) error {
	return s.session.Query("INSERT INTO categories (category_id, name, created_at) VALUES (?, ?, ?)",
		c.ID, c.Name, c.CreatedAt).WithContext(ctx).Exec()
}

// --- Réductions ---

func (s *Scylla) ListDiscounts(ctx context.Context, productID gocql.UUID) ([]models.Discount, error) {
	iter := s.session.Query(`SELECT discount_id, value, date_begin, date_end FROM discounts WHERE product_id = ?`, productID).
		WithContext(ctx).Iter()

	var out []models.Discount
	for {
		d := models.Discount{ProductID: productID}
		value := new(inf.Dec)
		if !iter.Scan(&d.ID, value, &d.DateBegin, &d.DateEnd) {
			break
		}
		d.Value = fromInfDec(value)
		out = append(out, d)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture réductions: %w", err)
	}
	return out, nil
}

func (s *Scylla) SaveDiscount(ctx context.Context, d models.Discount) error {
	return s.session.Query(`INSERT INTO discounts (product_id, discount_id, value, date_begin, date_end) VALUES (?, ?, ?, ?, ?)`,
		d.ProductID, d.ID, toInfDec(d.Value), d.DateBegin, d.DateEnd).WithContext(ctx).Exec()
}

func (s *Scylla) DeleteDiscount(ctx context.Context, productID, discountID gocql.UUID) error {
	return s.session.Query("DELETE FROM discounts WHERE product_id = ? AND discount_id = ?", productID, discountID).
		WithContext(ctx).Exec()
}
