package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type linkView struct {
	Entries []struct {
		Key  string           `json:"key"`
		Temp bool             `json:"temp"`
		Item model.SocialLink `json:"item"`
	} `json:"entries"`
	Editing    string `json:"editing"`
	OrderDirty bool   `json:"order_dirty"`
	Key        string `json:"key"`
}

func (v linkView) titles() []string {
	out := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		out[i] = e.Item.Title
	}
	return out
}

func decodeLinks(t *testing.T, body []byte) linkView {
	var v linkView
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func setupWorkspaceRouter(testDB *gorm.DB, userID uint) *gin.Engine {
	companyRepo := repository.NewCompanyRepository(testDB)
	workspaceService := service.NewWorkspaceService(companyRepo, repository.NewSocialLinkRepository(testDB), repository.NewProductRepository(testDB))
	ctrl := NewWorkspaceController(workspaceService, service.NewPublicService(testDB))

	router := newTestRouter(userID)
	router.GET("/companies", ctrl.ListCompanies)
	company := router.Group("/companies/:companyId")
	company.DELETE("/workspace", ctrl.Close)
	ctrl.Links.Routes(company.Group("/links"))
	ctrl.Products.Routes(company.Group("/products"))
	return router
}

func seedLinks(t *testing.T, testDB *gorm.DB, companyID uint, titles ...string) {
	links := make([]model.SocialLink, len(titles))
	for i, title := range titles {
		links[i] = model.SocialLink{CompanyID: companyID, Title: title, URL: "https://example.com/" + title, Position: i, IsActive: true}
	}
	require.NoError(t, repository.NewSocialLinkRepository(testDB).CreateBatch(context.Background(), links))
}

func TestWorkspaceController_DragAndSave(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)
	seedLinks(t, testDB, company.ID, "A", "B", "C")
	router := setupWorkspaceRouter(testDB, 7)
	base := fmt.Sprintf("/companies/%d/links", company.ID)

	w := serve(t, router, http.MethodPost, base+"/drag", gin.H{"action": "start", "index": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(t, router, http.MethodPost, base+"/drag", gin.H{"action": "over", "index": 2})
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeLinks(t, w.Body.Bytes())
	assert.Equal(t, []string{"B", "C", "A"}, view.titles())
	assert.True(t, view.OrderDirty)

	w = serve(t, router, http.MethodPost, base+"/drag", gin.H{"action": "end"})
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, router, http.MethodPost, base+"/drag", gin.H{"action": "over", "index": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, router, http.MethodPut, base+"/order", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeLinks(t, w.Body.Bytes()).OrderDirty)

	links, err := repository.NewSocialLinkRepository(testDB).FindByCompany(context.Background(), company.ID, false)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "B", links[0].Title)
	assert.Equal(t, "A", links[2].Title)
}

func TestWorkspaceController_EditLifecycle(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)
	seedLinks(t, testDB, company.ID, "Web")
	router := setupWorkspaceRouter(testDB, 7)
	base := fmt.Sprintf("/companies/%d/links", company.ID)

	w := serve(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	persistedKey := decodeLinks(t, w.Body.Bytes()).Entries[0].Key

	t.Run("Duplicate and commit", func(t *testing.T) {
		w := serve(t, router, http.MethodPost, base+"/"+persistedKey+"/duplicate", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		view := decodeLinks(t, w.Body.Bytes())
		assert.Equal(t, []string{"Web", "Web (copy)"}, view.titles())

		w = serve(t, router, http.MethodPut, base+"/"+view.Key, gin.H{
			"title": "Instagram", "url": "clinicavitro", "platform": "instagram",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view = decodeLinks(t, w.Body.Bytes())
		assert.False(t, view.Entries[1].Temp)
		assert.Equal(t, "https://instagram.com/clinicavitro", view.Entries[1].Item.URL)
	})

	t.Run("Duplicate platform", func(t *testing.T) {
		w := serve(t, router, http.MethodPost, base, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		key := decodeLinks(t, w.Body.Bytes()).Key

		w = serve(t, router, http.MethodPut, base+"/"+key, gin.H{
			"title": "Otra", "url": "otra", "platform": "instagram",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperrors.CollectionDuplicatePlatform, errorBody(t, w).Error)

		w = serve(t, router, http.MethodPost, base+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeLinks(t, w.Body.Bytes()).Editing)

		w = serve(t, router, http.MethodDelete, base+"/"+key+"?confirm=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Toggle", func(t *testing.T) {
		w := serve(t, router, http.MethodPost, base+"/"+persistedKey+"/toggle", nil)
		require.Equal(t, http.StatusOK, w.Code)
		view := decodeLinks(t, w.Body.Bytes())
		assert.False(t, view.Entries[0].Item.IsActive)
	})

	t.Run("Remove needs confirmation", func(t *testing.T) {
		w := serve(t, router, http.MethodDelete, base+"/"+persistedKey, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.CollectionConfirmRequired, errorBody(t, w).Error)

		w = serve(t, router, http.MethodDelete, base+"/"+persistedKey+"?confirm=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Instagram"}, decodeLinks(t, w.Body.Bytes()).titles())
	})
}

func TestWorkspaceController_Products(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)
	router := setupWorkspaceRouter(testDB, 7)
	base := fmt.Sprintf("/companies/%d/products", company.ID)

	w := serve(t, router, http.MethodPost, base, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var view struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	w = serve(t, router, http.MethodPut, base+"/"+view.Key, gin.H{"name": "Consulta", "price": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w).Fields, "price")

	w = serve(t, router, http.MethodPut, base+"/"+view.Key, gin.H{"name": "Consulta", "price": 25000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	products, err := repository.NewProductRepository(testDB).FindByCompany(context.Background(), company.ID, false)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Consulta", products[0].Name)
}

func TestWorkspaceController_Access(t *testing.T) {
	testDB := setupControllerTest(t)
	company := createCompany(t, testDB, "vitro", 7)

	w := serve(t, setupWorkspaceRouter(testDB, 8), http.MethodGet, fmt.Sprintf("/companies/%d/links", company.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(t, setupWorkspaceRouter(testDB, 0), http.MethodGet, fmt.Sprintf("/companies/%d/links", company.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(t, setupWorkspaceRouter(testDB, 7), http.MethodGet, "/companies/abc/links", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, setupWorkspaceRouter(testDB, 7), http.MethodGet, "/companies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}
