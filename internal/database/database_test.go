package database

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsistency(t *testing.T) {
	c, err := parseConsistency(" quorum")
	require.NoError(t, err)
	assert.Equal(t, gocql.Quorum, c)

	c, err = parseConsistency("LOCAL_ONE")
	require.NoError(t, err)
	assert.Equal(t, gocql.LocalOne, c)

	_, err = parseConsistency("everything")
	assert.Error(t, err)
}
