package menuimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
categories:
  - name: Tacos
    items:
      - name: Tacos al pastor
        description: Con piña
        price: 25.5
      - name: Tacos de suadero
        price: 28
        available: false
  - name: Bebidas
    items:
      - name: Agua de horchata
        price: 49
        imageUrl: https://cdn.libi.app/horchata.jpg
`

func TestParse_ValidYAML(t *testing.T) {
	menu, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	require.Len(t, menu.Categories, 2)
	assert.Equal(t, "Tacos", menu.Categories[0].Name)
	require.Len(t, menu.Categories[0].Items, 2)

	pastor := menu.Categories[0].Items[0]
	assert.Equal(t, "Tacos al pastor", pastor.Name)
	assert.Equal(t, "Con piña", pastor.Description)
	assert.Equal(t, 25.5, pastor.Price)
	assert.True(t, pastor.IsAvailable, "availability defaults to true")

	assert.False(t, menu.Categories[0].Items[1].IsAvailable)
	assert.Equal(t, 3, ItemCount(menu))
}

func TestParse_ValidJSON(t *testing.T) {
	menu, err := Parse([]byte(`{
		"categories": [
			{"name": "Tacos", "items": [{"name": "Pastor", "price": 25.5}]}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "Pastor", menu.Categories[0].Items[0].Name)
}

func TestParse_ReportsAllViolations(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  - name: ""
    items:
      - name: Pastor
        price: -1
`))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// Both the empty category name and the negative price are reported.
	assert.GreaterOrEqual(t, len(verr.Issues), 2)
}

func TestParse_MissingPriceRejected(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  - name: Tacos
    items:
      - name: Pastor
`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParse_EmptyCategoriesRejected(t *testing.T) {
	_, err := Parse([]byte(`categories: []`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = Parse([]byte(`
categories:
  - name: Tacos
    items: []
`))
	require.ErrorAs(t, err, &verr)
}

func TestParse_NotYAML(t *testing.T) {
	_, err := Parse([]byte("\tcategories: {"))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "menu file invalid")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	menu, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, ItemCount(menu))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCleanName(t *testing.T) {
	// Decomposed "piña" (n + combining tilde) folds to the composed form.
	assert.Equal(t, "piña", CleanName("piña"))
	assert.Equal(t, "Tacos al pastor", CleanName("  Tacos   al  pastor "))
	assert.Equal(t, "", CleanName("   "))
}
