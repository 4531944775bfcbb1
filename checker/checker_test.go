package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimprep/oaserrors"
)

func TestCheck_ValidDocument(t *testing.T) {
	data := []byte(`{
		"openapi": "3.0.1",
		"info": {"title": "test", "version": "1.0.0"},
		"paths": {}
	}`)

	assert.NoError(t, Check(context.Background(), data))
}

func TestCheck_MalformedJSON(t *testing.T) {
	err := Check(context.Background(), []byte(`{"openapi": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestCheck_MissingVersionField(t *testing.T) {
	err := Check(context.Background(), []byte(`{"info": {"title": "test", "version": "1.0.0"}}`))
	require.Error(t, err)

	var parseErr *oaserrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "openapi version field")
}
