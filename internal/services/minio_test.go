package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURLAndKey(t *testing.T) {
	endpoint := &url.URL{Scheme: "http", Host: "minio:9000"}

	u := objectURL(endpoint, "images", "products/42/a.png")
	assert.Equal(t, "http://minio:9000/images/products/42/a.png", u)
	assert.Equal(t, "products/42/a.png", objectKey(endpoint, "images", u))

	assert.Empty(t, objectKey(endpoint, "images", "https://cdn.example.com/a.png"))
	assert.Empty(t, objectKey(endpoint, "other", u))
}
