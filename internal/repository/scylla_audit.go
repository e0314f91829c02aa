package repository

import (
	"context"
	"fmt"

	"storefront_back_end/internal/models"
)

func (s *Scylla) SaveAudit(ctx context.Context, e models.AuditEntry) error {
	return s.session.Query(`INSERT INTO audit_logs (
			resource, logged_at, id, user_id, user_email, action,
			resource_id, ip_address, user_agent, success, error_msg
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Resource, e.Timestamp, e.ID, e.UserID, e.UserEmail, e.Action,
		e.ResourceID, e.IPAddress, e.UserAgent, e.Success, e.ErrorMsg,
	).WithContext(ctx).Exec()
}

// ListAudit lit une partition "resource", triée par date décroissante.
func (s *Scylla) ListAudit(ctx context.Context, resource string, limit int) ([]models.AuditEntry, error) {
	iter := s.session.Query(`SELECT logged_at, id, user_id, user_email, action, resource_id,
			ip_address, user_agent, success, error_msg
		FROM audit_logs WHERE resource = ? LIMIT ?`, resource, limit).WithContext(ctx).Iter()

	var out []models.AuditEntry
	e := models.AuditEntry{Resource: resource}
	for iter.Scan(&e.Timestamp, &e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.ResourceID,
		&e.IPAddress, &e.UserAgent, &e.Success, &e.ErrorMsg) {
		out = append(out, e)
		e = models.AuditEntry{Resource: resource}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture audit %s: %w", resource, err)
	}
	return out, nil
}
