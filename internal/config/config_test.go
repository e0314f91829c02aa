package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ADMIN_EMAILS", "")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendScylla, cfg.StoreBackend)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.ShopConcurrency)
	assert.Empty(t, cfg.AdminEmails)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1, 10.0.0.2 ,")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("API_RATE_LIMIT", "pas-un-nombre")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ADMIN_EMAILS", "admin@shop.fr")
	t.Setenv("CSRF_TRUSTED_ORIGINS", "shop.fr,www.shop.fr")

	cfg := FromEnv()
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Scylla.Hosts)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 100, cfg.APIRateLimit, "invalid ints fall back to the default")
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, []string{"admin@shop.fr"}, cfg.AdminEmails)
	assert.Equal(t, []string{"shop.fr", "www.shop.fr"}, cfg.CSRFOrigins)
}
