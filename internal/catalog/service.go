package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/pricing"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	msgProductNotFound  = "Produit introuvable"
	msgCategoryNotFound = "Catégorie introuvable"

	imageLinkTTL = 15 * time.Minute
)

type Options struct {
	Index         SearchIndex
	Images        ImageStore
	MaxConcurrent int
	Clock         func() time.Time
	Logger        *zap.Logger
}

type Service struct {
	repo          Repository
	index         SearchIndex
	images        ImageStore
	maxConcurrent int
	now           func() time.Time
	log           *zap.Logger
}

func NewService(repo Repository, opts Options) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		index:         opts.Index,
		images:        opts.Images,
		maxConcurrent: opts.MaxConcurrent,
		now:           opts.Clock,
		log:           opts.Logger,
	}
}

// ParseID convertit un identifiant texte en UUID ScyllaDB.
func ParseID(id string) (gocql.UUID, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return gocql.UUID{}, false
	}
	return gocql.UUID(parsed), true
}

// Shop renvoie tous les produits avec leur prix avant et après réduction.
// categoryID vide = pas de filtre.
func (s *Service) Shop(ctx context.Context, categoryID string) ([]models.PricedProduct, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("lecture catalogue", err)
	}

	if categoryID != "" {
		catID, ok := ParseID(categoryID)
		if !ok {
			return nil, apperr.BadRequest("ID catégorie invalide")
		}
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.CategoryID != nil && *p.CategoryID == catID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return s.price(ctx, products)
}

func (s *Service) price(ctx context.Context, products []models.Product) ([]models.PricedProduct, error) {
	now := s.now()
	out := make([]models.PricedProduct, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range products {
		g.Go(func() error {
			p := products[idx]
			discounts, err := s.repo.ListDiscounts(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("réductions du produit %s: %w", p.ID, err)
			}
			out[idx] = pricing.Apply(p, discounts, now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("calcul des prix", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Product renvoie un produit et son prix effectif.
func (s *Service) Product(ctx context.Context, id string) (models.PricedProduct, error) {
	productID, ok := ParseID(id)
	if !ok {
		return models.PricedProduct{}, apperr.NotFound(msgProductNotFound)
	}
	return s.Lookup(ctx, productID)
}

// Lookup sert aussi de source produit au panier et à la wishlist.
func (s *Service) Lookup(ctx context.Context, id gocql.UUID) (models.PricedProduct, error) {
	p, err := s.getProduct(ctx, id)
	if err != nil {
		return models.PricedProduct{}, err
	}

	discounts, err := s.repo.ListDiscounts(ctx, id)
	if err != nil {
		return models.PricedProduct{}, apperr.Internal("lecture réductions", err)
	}

	return pricing.Apply(p, discounts, s.now()), nil
}

func (s *Service) getProduct(ctx context.Context, id gocql.UUID) (models.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if errors.Is(err, apperr.ErrRecordNotFound) {
		return models.Product{}, apperr.NotFound(msgProductNotFound)
	}
	if err != nil {
		return models.Product{}, apperr.Internal("lecture produit", err)
	}
	return p, nil
}

// Search interroge l'index plein texte, ou filtre par nom si aucun index n'est configuré.
func (s *Service) Search(ctx context.Context, query string) ([]models.PricedProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Paramètre \"q\" manquant")
	}

	if s.index == nil {
		all, err := s.Shop(ctx, "")
		if err != nil {
			return nil, err
		}
		needle := strings.ToLower(query)
		var out []models.PricedProduct
		for _, p := range all {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				out = append(out, p)
			}
		}
		return out, nil
	}

	ids, err := s.index.SearchProducts(ctx, query)
	if err != nil {
		return nil, apperr.Internal("recherche", err)
	}

	out := make([]models.PricedProduct, 0, len(ids))
	for _, id := range ids {
		p, err := s.Lookup(ctx, id)
		if apperr.KindOf(err) == apperr.KindNotFound {
			// index en retard sur la base
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Categories liste les catégories avec les noms de leurs produits.
func (s *Service) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal("lecture catégories", err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("lecture catalogue", err)
	}

	names := make(map[gocql.UUID][]string)
	for _, p := range products {
		if p.CategoryID != nil {
			names[*p.CategoryID] = append(names[*p.CategoryID], p.Name)
		}
	}

	out := make([]models.CategorySummary, 0, len(cats))
	for _, c := range cats {
		prods := names[c.ID]
		sort.Strings(prods)
		if prods == nil {
			prods = []string{}
		}
		out = append(out, models.CategorySummary{Category: c, Products: prods})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, apperr.BadRequest("Le champ 'name' est obligatoire")
	}

	c := models.Category{ID: gocql.TimeUUID(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return models.Category{}, apperr.Internal("création catégorie", err)
	}
	s.log.Info("📂 Catégorie créée", zap.String("category_id", c.ID.String()), zap.String("name", c.Name))
	return c, nil
}

func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	now := s.now().UTC()
	p := models.Product{ID: gocql.TimeUUID(), CreatedAt: now}
	if err := s.applyInput(ctx, &p, in); err != nil {
		return models.Product{}, err
	}
	p.UpdatedAt = now

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return models.Product{}, apperr.Internal("création produit", err)
	}
	s.reindex(ctx, p)
	s.log.Info("🆕 Produit créé", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	productID, ok := ParseID(id)
	if !ok {
		return models.Product{}, apperr.NotFound(msgProductNotFound)
	}
	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.applyInput(ctx, &p, in); err != nil {
		return models.Product{}, err
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return models.Product{}, apperr.Internal("mise à jour produit", err)
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *Service) applyInput(ctx context.Context, p *models.Product, in models.ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.BadRequest("Le champ 'name' est obligatoire")
	}
	if in.Price.IsNegative() {
		return apperr.BadRequest("Le prix ne peut pas être négatif")
	}

	p.Name = name
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.CategoryID = nil

	if strings.TrimSpace(in.CategoryID) != "" {
		catID, ok := ParseID(in.CategoryID)
		if !ok {
			return apperr.BadRequest("ID catégorie invalide")
		}
		_, err := s.repo.GetCategory(ctx, catID)
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound(msgCategoryNotFound)
		}
		if err != nil {
			return apperr.Internal("lecture catégorie", err)
		}
		p.CategoryID = &catID
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	productID, ok := ParseID(id)
	if !ok {
		return apperr.NotFound(msgProductNotFound)
	}
	if _, err := s.getProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return apperr.Internal("suppression produit", err)
	}
	if s.index != nil {
		if err := s.index.DeleteProduct(ctx, productID); err != nil {
			s.log.Warn("⚠️ Suppression index échouée", zap.String("product_id", productID.String()), zap.Error(err))
		}
	}
	s.log.Info("🗑️ Produit supprimé", zap.String("product_id", productID.String()))
	return nil
}

// AttachImage envoie l'image au stockage objet et enregistre son URL sur le produit.
func (s *Service) AttachImage(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string) (models.Product, error) {
	if s.images == nil {
		return models.Product{}, apperr.Internal("upload image", errors.New("stockage d'images non configuré"))
	}
	productID, ok := ParseID(id)
	if !ok {
		return models.Product{}, apperr.NotFound(msgProductNotFound)
	}
	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.Product{}, apperr.BadRequest("Le fichier doit être une image")
	}

	key := fmt.Sprintf("products/%s/%s%s", p.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.images.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return models.Product{}, apperr.Internal("upload image", err)
	}

	p.ImageURL = url
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return models.Product{}, apperr.Internal("mise à jour produit", err)
	}
	s.reindex(ctx, p)
	return p, nil
}

// ImageLink renvoie une URL de lecture temporaire vers l'image du produit.
func (s *Service) ImageLink(ctx context.Context, id string) (string, error) {
	productID, ok := ParseID(id)
	if !ok {
		return "", apperr.NotFound(msgProductNotFound)
	}
	p, err := s.getProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	if p.ImageURL == "" {
		return "", apperr.NotFound("Ce produit n'a pas d'image")
	}
	if s.images == nil {
		return p.ImageURL, nil
	}
	link, err := s.images.SignedURL(ctx, p.ImageURL, imageLinkTTL)
	if err != nil {
		return "", apperr.Internal("signature URL image", err)
	}
	return link, nil
}

type DiscountInput struct {
	Value     decimal.Decimal `json:"value"`
	DateBegin time.Time       `json:"date_begin"`
	DateEnd   time.Time       `json:"date_end"`
}

func (s *Service) CreateDiscount(ctx context.Context, productID string, in DiscountInput) (models.Discount, error) {
	pid, ok := ParseID(productID)
	if !ok {
		return models.Discount{}, apperr.NotFound(msgProductNotFound)
	}
	if _, err := s.getProduct(ctx, pid); err != nil {
		return models.Discount{}, err
	}
	if in.Value.IsNegative() || in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return models.Discount{}, apperr.BadRequest("La réduction doit être comprise entre 0 et 100")
	}
	if in.DateBegin.IsZero() || in.DateEnd.IsZero() || in.DateEnd.Before(in.DateBegin) {
		return models.Discount{}, apperr.BadRequest("Période de réduction invalide")
	}

	d := models.Discount{
		ID:        gocql.TimeUUID(),
		ProductID: pid,
		Value:     in.Value,
		DateBegin: in.DateBegin.UTC(),
		DateEnd:   in.DateEnd.UTC(),
	}
	if err := s.repo.SaveDiscount(ctx, d); err != nil {
		return models.Discount{}, apperr.Internal("création réduction", err)
	}
	return d, nil
}

func (s *Service) Discounts(ctx context.Context, productID string) ([]models.Discount, error) {
	pid, ok := ParseID(productID)
	if !ok {
		return nil, apperr.NotFound(msgProductNotFound)
	}
	if _, err := s.getProduct(ctx, pid); err != nil {
		return nil, err
	}
	ds, err := s.repo.ListDiscounts(ctx, pid)
	if err != nil {
		return nil, apperr.Internal("lecture réductions", err)
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].DateBegin.Before(ds[j].DateBegin) })
	return ds, nil
}

func (s *Service) DeleteDiscount(ctx context.Context, productID, discountID string) error {
	pid, ok := ParseID(productID)
	if !ok {
		return apperr.NotFound(msgProductNotFound)
	}
	did, ok := ParseID(discountID)
	if !ok {
		return apperr.NotFound("Réduction introuvable")
	}
	ds, err := s.repo.ListDiscounts(ctx, pid)
	if err != nil {
		return apperr.Internal("lecture réductions", err)
	}
	found := false
	for _, d := range ds {
		if d.ID == did {
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("Réduction introuvable")
	}
	if err := s.repo.DeleteDiscount(ctx, pid, did); err != nil {
		return apperr.Internal("suppression réduction", err)
	}
	return nil
}

func (s *Service) reindex(ctx context.Context, p models.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexProduct(ctx, p); err != nil {
		s.log.Warn("⚠️ Indexation Elasticsearch échouée", zap.String("product_id", p.ID.String()), zap.Error(err))
	}
}
