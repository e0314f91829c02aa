package wishlist

import (
	"context"
	"sort"
	"strings"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/models"
)

// AddResult distingue un ajout effectif d'un produit déjà présent.
type AddResult int

const (
	Created AddResult = iota + 1
	AlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Message est le texte affiché à l'utilisateur pour ce résultat.
func (r AddResult) Message() string {
	if r == AlreadyExists {
		return "Produit déjà ajouté à la wishlist"
	}
	return "Produit ajouté à la wishlist"
}

const (
	msgUnauthenticated  = "Authentification requise"
	msgMissingProduct   = "Paramètre \"product\" manquant"
	msgInvalidProductID = "ID produit invalide"
	msgItemNotFound     = "Produit absent de la wishlist"
)

type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Add est idempotent : un second ajout renvoie AlreadyExists sans doublon.
func (s *Service) Add(ctx context.Context, caller models.Caller, productID string) (AddResult, error) {
	if !caller.Authenticated() {
		return 0, apperr.Unauthenticated(msgUnauthenticated)
	}
	if strings.TrimSpace(productID) == "" {
		return 0, apperr.BadRequest(msgMissingProduct)
	}
	pid, ok := catalog.ParseID(productID)
	if !ok {
		return 0, apperr.BadRequest(msgInvalidProductID)
	}

	exists, err := s.repo.Contains(ctx, caller.UserID, pid)
	if err != nil {
		return 0, apperr.Internal("lecture wishlist", err)
	}
	if exists {
		return AlreadyExists, nil
	}

	if _, err := s.catalog.Lookup(ctx, pid); err != nil {
		return 0, err
	}

	item := models.WishlistItem{UserID: caller.UserID, ProductID: pid, AddedAt: s.now().UTC()}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return 0, apperr.Internal("ajout wishlist", err)
	}
	return Created, nil
}

// Remove échoue en NotFound si le produit n'est pas dans la wishlist de l'appelant.
func (s *Service) Remove(ctx context.Context, caller models.Caller, productID string) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated(msgUnauthenticated)
	}
	pid, ok := catalog.ParseID(productID)
	if !ok {
		return apperr.NotFound(msgItemNotFound)
	}

	exists, err := s.repo.Contains(ctx, caller.UserID, pid)
	if err != nil {
		return apperr.Internal("lecture wishlist", err)
	}
	if !exists {
		return apperr.NotFound(msgItemNotFound)
	}

	if err := s.repo.RemoveItem(ctx, caller.UserID, pid); err != nil {
		return apperr.Internal("suppression wishlist", err)
	}
	return nil
}

// List renvoie une liste vide, sans erreur, pour un visiteur anonyme.
func (s *Service) List(ctx context.Context, caller models.Caller) ([]models.Product, error) {
	if !caller.Authenticated() {
		return []models.Product{}, nil
	}
	ids, err := s.repo.ListProductIDs(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Internal("lecture wishlist", err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.Lookup(ctx, id)
		if apperr.KindOf(err) == apperr.KindNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p.Product)
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}
