package security

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(doc string) string {
	return url.QueryEscape(doc)
}

func TestParsePolicyDocument_AdminPolicy(t *testing.T) {
	doc, err := parsePolicyDocument(encode(
		`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`))
	require.NoError(t, err)
	assert.True(t, doc.isOverlyPermissive())
}

func TestParsePolicyDocument_ScopedPolicy(t *testing.T) {
	doc, err := parsePolicyDocument(encode(
		`{"Statement":[{"Effect":"Allow","Action":["s3:GetObject"],"Resource":["arn:aws:s3:::bucket/*"]}]}`))
	require.NoError(t, err)
	assert.False(t, doc.isOverlyPermissive())
}

func TestParsePolicyDocument_DenyWildcardNotFlagged(t *testing.T) {
	doc, err := parsePolicyDocument(encode(
		`{"Statement":[{"Effect":"Deny","Action":"*","Resource":"*"}]}`))
	require.NoError(t, err)
	assert.False(t, doc.isOverlyPermissive())
}

func TestParsePolicyDocument_SingleStatementObject(t *testing.T) {
	doc, err := parsePolicyDocument(encode(
		`{"Statement":{"Effect":"Allow","Action":"*","Resource":"*"}}`))
	require.NoError(t, err)
	assert.True(t, doc.isOverlyPermissive())
}

func TestParsePolicyDocument_WildcardInActionList(t *testing.T) {
	doc, err := parsePolicyDocument(encode(
		`{"Statement":[{"Effect":"Allow","Action":["s3:GetObject","*"],"Resource":"*"}]}`))
	require.NoError(t, err)
	assert.True(t, doc.isOverlyPermissive())
}

func TestParsePolicyDocument_InvalidJSON(t *testing.T) {
	_, err := parsePolicyDocument(encode(`{"Statement":`))
	assert.ErrorContains(t, err, "failed to parse policy document")
}
