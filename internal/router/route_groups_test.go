package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hydrohub_backend/internal/handlers"
	"hydrohub_backend/internal/middleware"
	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopProductService satisfies ProductService so route tests exercise only
// the role guards in front of the handlers.
type noopProductService struct{}

var _ services.ProductService = (*noopProductService)(nil)

func (noopProductService) CreateProduct(services.CreateProductRequest) (*models.Product, error) {
	return &models.Product{}, nil
}

func (noopProductService) GetProductByID(int64) (*models.Product, error) {
	return &models.Product{}, nil
}

func (noopProductService) ListForStation(int64, *string, bool) ([]models.Product, error) {
	return nil, nil
}

func (noopProductService) ListAll() ([]models.Product, error) {
	return nil, nil
}

func (noopProductService) UpdateProduct(int64, services.UpdateProductRequest) (*models.Product, error) {
	return &models.Product{}, nil
}

func (noopProductService) ToggleArchive(int64) (*models.Product, error) {
	return &models.Product{}, nil
}

func (noopProductService) DeleteProduct(int64) error {
	return nil
}

func productRoutesRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1", middleware.AuthMiddleware())
	SetupProductRoutes(group, handlers.NewProductHandler(noopProductService{}))
	return engine
}

func doAs(t *testing.T, engine *gin.Engine, role, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateAccessToken(1, role+"000001", role)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestProductDeleteIsAdminOnly(t *testing.T) {
	engine := productRoutesRouter()

	rec := doAs(t, engine, "admin", http.MethodDelete, "/api/v1/products/7")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAs(t, engine, "owner", http.MethodDelete, "/api/v1/products/7")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductArchiveIsOwnerOnly(t *testing.T) {
	engine := productRoutesRouter()

	rec := doAs(t, engine, "owner", http.MethodPatch, "/api/v1/products/7/archive")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAs(t, engine, "admin", http.MethodPatch, "/api/v1/products/7/archive")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
