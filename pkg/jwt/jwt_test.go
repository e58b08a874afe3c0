package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/encomiendas-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	id := pkgjwt.Identity{
		UserID:      "u-1",
		OfficeID:    "of-1",
		Name:        "Taquilla Centro",
		Role:        "taquilla",
		Permissions: []string{"invoices.view", "invoices.create"},
	}
	tok, err := pkgjwt.Generate(testSecret, id, "encomiendas-test", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "encomiendas-test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u-1"}, "x", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err, "un token firmado con otro secreto no debe validar")
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u-1"}, "x", -5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "un token vencido no debe validar")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Identity{UserID: "u-1"}, "x", 60)
	assert.Error(t, err)
}
