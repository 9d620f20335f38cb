package handler

import (
	"testing"

	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"
	"inventory-ledger/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCatalogApp wires the unit and item handlers to a real in-memory store.
func setupCatalogApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.OpenDB(t)
	_, err := repository.SeedUnits(db)
	require.NoError(t, err)

	units := repository.NewUnitRepo(db)
	items := repository.NewItemRepo(db)
	app := fiber.New()
	RegisterRoutes(app.Group("/api/v1"), testSecret, Handlers{
		Units: NewUnitHandler(service.NewUnitService(units, items, repository.NewLotRepo(db), nil, nil), nil),
		Items: NewItemHandler(service.NewItemService(items, units, nil), nil),
	})
	return app
}

func TestConvertEndpoint(t *testing.T) {
	app := setupCatalogApp(t)
	auth := bearer(t, middleware.PrivItemManage, middleware.PrivUnitManage)

	status, out := doJSON(t, app, "POST", "/api/v1/units/convert", map[string]interface{}{
		"quantity": "2", "from": "kg", "to": "g",
	}, auth)
	require.Equal(t, 200, status)
	assert.Equal(t, "2000", out["quantity"])
	assert.Equal(t, "direct", out["kind"])

	status, out = doJSON(t, app, "POST", "/api/v1/units/convert", map[string]interface{}{
		"quantity": "1", "from": "count", "to": "g",
	}, auth)
	assert.Equal(t, 400, status)
	assert.Equal(t, "unresolvable_conversion", out["kind"])

	status, out = doJSON(t, app, "POST", "/api/v1/items", map[string]interface{}{
		"sku": "FLOUR", "name": "Flour", "default_unit": "g",
	}, auth)
	require.Equal(t, 201, status)
	itemID := out["data"].(map[string]interface{})["id"].(string)

	status, out = doJSON(t, app, "POST", "/api/v1/units/convert", map[string]interface{}{
		"quantity": "1", "from": "cup", "to": "g", "item_id": itemID,
	}, auth)
	assert.Equal(t, 422, status)
	assert.Equal(t, "missing_density", out["kind"])

	status, _ = doJSON(t, app, "PUT", "/api/v1/items/"+itemID, map[string]interface{}{
		"name": "Flour", "default_unit": "g", "density": "0.5",
	}, auth)
	require.Equal(t, 200, status)

	status, out = doJSON(t, app, "POST", "/api/v1/units/convert", map[string]interface{}{
		"quantity": "1", "from": "cup", "to": "g", "item_id": itemID,
	}, auth)
	assert.Equal(t, 200, status)
	assert.Equal(t, "density", out["kind"])
}

func TestMappingEndpoints(t *testing.T) {
	app := setupCatalogApp(t)
	auth := bearer(t, middleware.PrivUnitManage)

	status, _ := doJSON(t, app, "POST", "/api/v1/units", map[string]interface{}{"name": "scoop", "type": "volume"}, auth)
	require.Equal(t, 201, status)

	status, out := doJSON(t, app, "POST", "/api/v1/units/mappings", map[string]interface{}{
		"from_unit": "scoop", "to_unit": "dozen", "multiplier": "1",
	}, auth)
	assert.Equal(t, 400, status)
	assert.Equal(t, "validation", out["kind"])

	status, out = doJSON(t, app, "POST", "/api/v1/units/mappings", map[string]interface{}{
		"from_unit": "scoop", "to_unit": "g", "multiplier": "12.5",
	}, auth)
	require.Equal(t, 201, status)
	mappingID := out["data"].(map[string]interface{})["id"].(string)

	status, _ = doJSON(t, app, "POST", "/api/v1/units/mappings", map[string]interface{}{
		"from_unit": "scoop", "to_unit": "g", "multiplier": "12.5",
	}, bearer(t))
	assert.Equal(t, 403, status)

	status, _ = doJSON(t, app, "DELETE", "/api/v1/units/mappings/"+mappingID, nil, auth)
	assert.Equal(t, 200, status)
	status, _ = doJSON(t, app, "DELETE", "/api/v1/units/mappings/"+mappingID, nil, auth)
	assert.Equal(t, 400, status)
}
