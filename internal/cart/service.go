package cart

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

const (
	DefaultQuantity = 1

	msgUnauthenticated  = "Non authentifié"
	msgItemNotFound     = "Article du panier introuvable"
	msgMissingProductID = "Paramètre \"product_id\" manquant"
	msgInvalidProductID = "ID produit invalide"
	msgInvalidQuantity  = "Quantité invalide"
)

type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		now:     time.Now,
	}
}

// Add ajoute un produit au panier ou incrémente la ligne existante.
// quantity nil (ou 0) vaut 1.
func (s *Service) Add(ctx context.Context, caller models.Caller, productID string, quantity *int) (models.CartItem, error) {
	if !caller.Authenticated() {
		return models.CartItem{}, apperr.Unauthenticated(msgUnauthenticated)
	}
	if strings.TrimSpace(productID) == "" {
		return models.CartItem{}, apperr.BadRequest(msgMissingProductID)
	}
	pid, ok := catalog.ParseID(productID)
	if !ok {
		return models.CartItem{}, apperr.BadRequest(msgInvalidProductID)
	}

	n := DefaultQuantity
	if quantity != nil {
		if *quantity < 0 {
			return models.CartItem{}, apperr.BadRequest(msgInvalidQuantity)
		}
		if *quantity > 0 {
			n = *quantity
		}
	}

	if _, err := s.catalog.Lookup(ctx, pid); err != nil {
		return models.CartItem{}, err
	}

	now := s.now().UTC()
	item, err := s.repo.FindByProduct(ctx, caller.UserID, pid)
	switch {
	case err == nil:
		item.Quantity += n
		item.UpdatedAt = now
	case errors.Is(err, apperr.ErrRecordNotFound):
		item = models.CartItem{
			ID:        gocql.TimeUUID(),
			UserID:    caller.UserID,
			ProductID: pid,
			Quantity:  n,
			AddedAt:   now,
			UpdatedAt: now,
		}
	default:
		return models.CartItem{}, apperr.Internal("lecture panier", err)
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return models.CartItem{}, apperr.Internal("enregistrement panier", err)
	}
	return item, nil
}

// Update modifie la quantité et/ou le produit d'une ligne.
// Si le nouveau produit a déjà une ligne, les deux lignes sont fusionnées.
func (s *Service) Update(ctx context.Context, caller models.Caller, itemID string, quantity *int, productID *string) (models.CartItem, error) {
	if !caller.Authenticated() {
		return models.CartItem{}, apperr.Unauthenticated(msgUnauthenticated)
	}
	item, err := s.getItem(ctx, caller, itemID)
	if err != nil {
		return models.CartItem{}, err
	}

	if quantity != nil {
		if *quantity < 1 {
			return models.CartItem{}, apperr.BadRequest(msgInvalidQuantity)
		}
		item.Quantity = *quantity
	}

	now := s.now().UTC()
	item.UpdatedAt = now

	if productID != nil && strings.TrimSpace(*productID) != "" {
		pid, ok := catalog.ParseID(*productID)
		if !ok {
			return models.CartItem{}, apperr.BadRequest(msgInvalidProductID)
		}
		if _, err := s.catalog.Lookup(ctx, pid); err != nil {
			return models.CartItem{}, err
		}

		if pid != item.ProductID {
			other, err := s.repo.FindByProduct(ctx, caller.UserID, pid)
			switch {
			case err == nil:
				other.Quantity += item.Quantity
				other.UpdatedAt = now
				if err := s.repo.SaveItem(ctx, other); err != nil {
					return models.CartItem{}, apperr.Internal("enregistrement panier", err)
				}
				if err := s.repo.DeleteItem(ctx, caller.UserID, item.ID); err != nil {
					return models.CartItem{}, apperr.Internal("suppression panier", err)
				}
				return other, nil
			case errors.Is(err, apperr.ErrRecordNotFound):
				item.ProductID = pid
			default:
				return models.CartItem{}, apperr.Internal("lecture panier", err)
			}
		}
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return models.CartItem{}, apperr.Internal("enregistrement panier", err)
	}
	return item, nil
}

// Remove supprime une ligne appartenant à l'appelant.
func (s *Service) Remove(ctx context.Context, caller models.Caller, itemID string) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated(msgUnauthenticated)
	}
	item, err := s.getItem(ctx, caller, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, caller.UserID, item.ID); err != nil {
		return apperr.Internal("suppression panier", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, caller models.Caller) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated(msgUnauthenticated)
	}
	if err := s.repo.ClearItems(ctx, caller.UserID); err != nil {
		return apperr.Internal("vidage panier", err)
	}
	return nil
}

// List renvoie le panier de l'appelant avec les prix courants.
// Les lignes dont le produit a disparu du catalogue sont ignorées.
func (s *Service) List(ctx context.Context, caller models.Caller) (models.Cart, error) {
	if !caller.Authenticated() {
		return models.Cart{}, apperr.Unauthenticated(msgUnauthenticated)
	}
	items, err := s.repo.ListItems(ctx, caller.UserID)
	if err != nil {
		return models.Cart{}, apperr.Internal("lecture panier", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })

	cart := models.Cart{UserID: caller.UserID, Items: make([]models.CartLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		p, err := s.catalog.Lookup(ctx, it.ProductID)
		if apperr.KindOf(err) == apperr.KindNotFound {
			continue
		}
		if err != nil {
			return models.Cart{}, err
		}
		line := models.CartLine{
			CartItem:  it,
			Product:   p,
			LineTotal: p.PriceAfter.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		cart.Items = append(cart.Items, line)
		cart.Total = cart.Total.Add(line.LineTotal)
		cart.Count += it.Quantity
	}
	return cart, nil
}

func (s *Service) getItem(ctx context.Context, caller models.Caller, itemID string) (models.CartItem, error) {
	id, ok := catalog.ParseID(itemID)
	if !ok {
		return models.CartItem{}, apperr.NotFound(msgItemNotFound)
	}
	item, err := s.repo.GetItem(ctx, caller.UserID, id)
	if errors.Is(err, apperr.ErrRecordNotFound) {
		return models.CartItem{}, apperr.NotFound(msgItemNotFound)
	}
	if err != nil {
		return models.CartItem{}, apperr.Internal("lecture panier", err)
	}
	return item, nil
}
