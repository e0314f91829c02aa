// Package audit trace les actions d'administration du catalogue.
package audit

import (
	"context"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

const (
	ActionCategoryCreate = "category.create"
	ActionProductCreate  = "product.create"
	ActionProductUpdate  = "product.update"
	ActionProductDelete  = "product.delete"
	ActionProductImage   = "product.image"
	ActionDiscountCreate = "discount.create"
	ActionDiscountDelete = "discount.delete"
)

const (
	ResourceCategory = "category"
	ResourceProduct  = "product"
	ResourceDiscount = "discount"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500

	writeTimeout = 5 * time.Second
)

type Store interface {
	SaveAudit(ctx context.Context, e models.AuditEntry) error
	ListAudit(ctx context.Context, resource string, limit int) ([]models.AuditEntry, error)
}

// Request décrit l'origine HTTP d'une action.
type Request struct {
	IPAddress string
	UserAgent string
}

type Trail struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewTrail(store Store, log *zap.Logger) *Trail {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trail{store: store, log: log, now: time.Now}
}

// Record enregistre l'action en arrière-plan ; un échec d'écriture est seulement loggé.
// actionErr non nil marque l'action comme échouée.
func (t *Trail) Record(caller models.Caller, req Request, action, resource, resourceID string, actionErr error) {
	e := models.AuditEntry{
		ID:         gocql.TimeUUID(),
		UserID:     caller.UserID,
		UserEmail:  caller.Email,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Success:    actionErr == nil,
		Timestamp:  t.now().UTC(),
	}
	if actionErr != nil {
		e.ErrorMsg = apperr.Message(actionErr)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := t.store.SaveAudit(ctx, e); err != nil {
			t.log.Error("❌ Erreur enregistrement log audit", zap.String("action", action), zap.Error(err))
		}
	}()
}

// List renvoie les dernières entrées d'une ressource ; limit est ramené dans [1, MaxLimit].
func (t *Trail) List(ctx context.Context, resource string, limit int) ([]models.AuditEntry, error) {
	switch resource {
	case ResourceCategory, ResourceProduct, ResourceDiscount:
	default:
		return nil, apperr.BadRequest("Ressource d'audit inconnue")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	entries, err := t.store.ListAudit(ctx, resource, limit)
	if err != nil {
		return nil, apperr.Internal("lecture audit", err)
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return entries, nil
}
