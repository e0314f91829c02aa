package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectTarget(t *testing.T) {
	tests := map[string]string{
		"":                                 "/",
		"http://localhost:8080/":           "/",
		"http://localhost:8080/product/1/": "/",
		"http://localhost:8080/wishlist/":  "/wishlist/",
		"https://shop.fr/wishlist/?page=2": "/wishlist/",
	}
	for referer, want := range tests {
		assert.Equal(t, want, redirectTarget(referer), referer)
	}
}

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"shop.html", "product.html", "cart.html", "wishlist.html", "login.html", "register.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
