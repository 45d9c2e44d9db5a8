package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ruta_cafe/internal/config"
	"ruta_cafe/internal/middleware"
	"ruta_cafe/internal/models"
	"ruta_cafe/internal/routes"
)

// setupTestServer backs the global DB handle with a throwaway sqlite
// file and returns the full router, middleware included.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.Place{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Advertisement{},
	))
	config.DB = db

	return routes.SetupRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func techToken(t *testing.T, id uint) string {
	t.Helper()
	token, err := middleware.GenerateToken(id, models.RoleTechnician)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken(1, models.RoleAdministrator)
	require.NoError(t, err)
	return token
}

func TestCreatePlace_PendingGateEndToEnd(t *testing.T) {
	r := setupTestServer(t)
	tech := techToken(t, 7)

	// First submission goes through.
	w := doJSON(t, r, http.MethodPost, "/lugares", tech, gin.H{"name": "Café Uno"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Place struct {
			ID uint `json:"ID"`
		} `json:"place"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Second one hits the gate server-side, not just in the app UI.
	w = doJSON(t, r, http.MethodPost, "/lugares", tech, gin.H{"name": "Café Dos"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "pendiente")

	// Another technician is not blocked by someone else's pending place.
	w = doJSON(t, r, http.MethodPost, "/lugares", techToken(t, 8), gin.H{"name": "Café Ajeno"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Once the admin approves, the gate reopens.
	w = doJSON(t, r, http.MethodPut,
		"/admin/lugares/"+itoa(created.Place.ID)+"/estado",
		adminToken(t), gin.H{"estado": "aprobada"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/lugares", tech, gin.H{"name": "Café Dos"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRoute_PendingGateEndToEnd(t *testing.T) {
	r := setupTestServer(t)
	tech := techToken(t, 7)

	w := doJSON(t, r, http.MethodPost, "/rutas", tech, gin.H{"name": "Ruta Norte"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/rutas", tech, gin.H{"name": "Ruta Sur"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreatePlace_StandaloneLeavesRouteNull(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/lugares", techToken(t, 7), gin.H{"name": "Finca Sola"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var place models.Place
	require.NoError(t, config.DB.Where("name = ?", "Finca Sola").First(&place).Error)
	assert.Nil(t, place.RouteID)

	// A dangling route reference is refused up front.
	w = doJSON(t, r, http.MethodPost, "/lugares", techToken(t, 8),
		gin.H{"name": "Finca Rota", "route_id": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransitionPlace_Handler(t *testing.T) {
	r := setupTestServer(t)
	admin := adminToken(t)

	place := models.Place{Name: "Cafetería Centro", Status: models.StatusPending, CreatedBy: 7}
	require.NoError(t, config.DB.Create(&place).Error)
	id := itoa(place.ID)

	// Rejection without a comment is refused.
	w := doJSON(t, r, http.MethodPut, "/admin/lugares/"+id+"/estado", admin, gin.H{"estado": "rechazada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "comentario de rechazo requerido")

	// With a comment it lands, and the comment is stored.
	w = doJSON(t, r, http.MethodPut, "/admin/lugares/"+id+"/estado", admin,
		gin.H{"estado": "rechazada", "comentario": "Ubicación duplicada"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Place
	require.NoError(t, config.DB.First(&got, place.ID).Error)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "Ubicación duplicada", got.RejectionComment)

	// Approval afterwards clears the stale rejection reason.
	w = doJSON(t, r, http.MethodPut, "/admin/lugares/"+id+"/estado", admin, gin.H{"estado": "aprobada"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, config.DB.First(&got, place.ID).Error)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Empty(t, got.RejectionComment)

	// Non-admin roles are stopped at the route group.
	w = doJSON(t, r, http.MethodPut, "/admin/lugares/"+id+"/estado", techToken(t, 7), gin.H{"estado": "aprobada"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown entity.
	w = doJSON(t, r, http.MethodPut, "/admin/lugares/99999/estado", admin, gin.H{"estado": "aprobada"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutePayload_FiltersAndMasksNestedPlaces(t *testing.T) {
	r := setupTestServer(t)

	route := models.Route{Name: "Ruta del Valle", Status: models.StatusApproved, CreatedBy: 7}
	require.NoError(t, config.DB.Create(&route).Error)
	rid := route.ID

	approved := models.Place{
		Name: "Café Abierto", Phone: "555-0100",
		Status: models.StatusApproved, CreatedBy: 7, RouteID: &rid,
	}
	rejected := models.Place{
		Name: "Café Oculto", Phone: "555-0101",
		Status: models.StatusRejected, CreatedBy: 7,
		RejectionComment: "Ubicación duplicada", RouteID: &rid,
	}
	require.NoError(t, config.DB.Create(&approved).Error)
	require.NoError(t, config.DB.Create(&rejected).Error)

	// A visitor fetching the approved route must not receive its
	// rejected place, nor that place's phone or rejection reason.
	for _, path := range []string{"/rutas", "/rutas/" + itoa(route.ID)} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := w.Body.String()
		assert.Contains(t, body, "Café Abierto")
		assert.NotContains(t, body, "Café Oculto", "path %s", path)
		assert.NotContains(t, body, "555-0101", "path %s", path)
		assert.NotContains(t, body, "Ubicación duplicada", "path %s", path)
	}

	// The creator still sees their rejected place in the route payload,
	// but its contact details stay masked.
	w := doJSON(t, r, http.MethodGet, "/rutas/"+itoa(route.ID), techToken(t, 7), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Café Oculto")
	assert.NotContains(t, body, "555-0101")
}

func TestDeleteUser_RemovesEngagementRows(t *testing.T) {
	r := setupTestServer(t)

	user := models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleUser}
	require.NoError(t, config.DB.Create(&user).Error)
	place := models.Place{Name: "Café Rincón", Status: models.StatusApproved, CreatedBy: 7}
	require.NoError(t, config.DB.Create(&place).Error)

	require.NoError(t, config.DB.Create(&models.Like{PlaceID: place.ID, UserID: user.ID}).Error)
	require.NoError(t, config.DB.Create(&models.Comment{PlaceID: place.ID, UserID: user.ID, Text: "rico"}).Error)
	require.NoError(t, config.DB.Create(&models.Favorite{PlaceID: place.ID, UserID: user.ID}).Error)

	w := doJSON(t, r, http.MethodDelete, "/admin/usuarios/"+itoa(user.ID), adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, model := range []interface{}{&models.Like{}, &models.Comment{}, &models.Favorite{}} {
		var count int64
		require.NoError(t, config.DB.Model(model).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
	var users int64
	require.NoError(t, config.DB.Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	assert.Zero(t, users)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
