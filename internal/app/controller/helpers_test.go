package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/db"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupControllerTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	gin.SetMode(gin.TestMode)
	return testDB
}

// newTestRouter signs every request in as userID; 0 leaves it anonymous.
func newTestRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	return router
}

func createCompany(t *testing.T, testDB *gorm.DB, slug string, ownerID uint) *model.Company {
	company := &model.Company{
		OwnerID:  ownerID,
		Name:     "Empresa " + slug,
		Slug:     slug,
		Category: model.CategoryClinic,
	}
	require.NoError(t, repository.NewCompanyRepository(testDB).Create(context.Background(), company))
	require.NoError(t, repository.NewStatsRepository(testDB).Create(context.Background(), company.ID))
	return company
}

func serve(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
