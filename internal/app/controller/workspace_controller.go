package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/internal/app/collection"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/middleware"
)

// WorkspaceController serves the admin editor of links and products.
type WorkspaceController struct {
	workspaceService service.WorkspaceService
	publicService    service.PublicService

	Links    *collectionHandlers[model.SocialLink, *model.SocialLink, service.LinkFields]
	Products *collectionHandlers[model.Product, *model.Product, service.ProductFields]
}

func NewWorkspaceController(workspaceService service.WorkspaceService, publicService service.PublicService) *WorkspaceController {
	ctrl := &WorkspaceController{
		workspaceService: workspaceService,
		publicService:    publicService,
	}
	ctrl.Links = &collectionHandlers[model.SocialLink, *model.SocialLink, service.LinkFields]{
		name:    "links",
		open:    ctrl.open,
		manager: func(ws *service.Workspace) *collection.Manager[model.SocialLink, *model.SocialLink] { return ws.Links },
		commit:  workspaceService.CommitLink,
		blank:   func() model.SocialLink { return model.SocialLink{IsActive: true} },
	}
	ctrl.Products = &collectionHandlers[model.Product, *model.Product, service.ProductFields]{
		name:    "products",
		open:    ctrl.open,
		manager: func(ws *service.Workspace) *collection.Manager[model.Product, *model.Product] { return ws.Products },
		commit:  workspaceService.CommitProduct,
		blank:   func() model.Product { return model.Product{IsActive: true} },
	}
	return ctrl
}

func (ctrl *WorkspaceController) open(c *gin.Context) (*service.Workspace, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return nil, false
	}

	ws, err := ctrl.workspaceService.Open(c.Request.Context(), userID, companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "workspace")
		return nil, false
	}
	return ws, true
}

// ListCompanies returns the companies of the signed-in owner.
// GET /api/v1/admin/companies
func (ctrl *WorkspaceController) ListCompanies(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	companies, err := ctrl.publicService.OwnedCompanies(c.Request.Context(), userID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"count":     len(companies),
	})
}

// Close discards the workspace, dropping unsaved reorders.
// DELETE /api/v1/admin/companies/:companyId/workspace
func (ctrl *WorkspaceController) Close(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	companyID, ok := parseID(c, "companyId")
	if !ok {
		return
	}

	ctrl.workspaceService.Discard(userID, companyID)
	c.Status(http.StatusNoContent)
}

// collectionView is the editor state of one managed list.
type collectionView[T any] struct {
	Entries    []collection.Entry[T] `json:"entries"`
	Editing    string                `json:"editing,omitempty"`
	OrderDirty bool                  `json:"order_dirty"`
	Form       *T                    `json:"form,omitempty"`
	Key        string                `json:"key,omitempty"`
}

// collectionHandlers exposes one collection manager of the workspace over HTTP.
type collectionHandlers[T any, P collection.Resource[T], F any] struct {
	name    string
	open    func(c *gin.Context) (*service.Workspace, bool)
	manager func(ws *service.Workspace) *collection.Manager[T, P]
	commit  func(ctx context.Context, ws *service.Workspace, key string, fields F) (string, error)
	blank   func() T
}

// Routes mounts the collection under g.
func (h *collectionHandlers[T, P, F]) Routes(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.POST("", h.add)
	g.POST("/cancel", h.cancel)
	g.POST("/reorder", h.reorder)
	g.POST("/drag", h.drag)
	g.PUT("/order", h.saveOrder)
	g.PUT("/:key", h.commitEdit)
	g.DELETE("/:key", h.remove)
	g.POST("/:key/edit", h.edit)
	g.POST("/:key/toggle", h.toggle)
	g.POST("/:key/duplicate", h.duplicate)
}

func (h *collectionHandlers[T, P, F]) view(m *collection.Manager[T, P], key string) collectionView[T] {
	v := collectionView[T]{
		Entries:    m.Entries(),
		Editing:    m.Editing(),
		OrderDirty: m.OrderDirty(),
		Key:        key,
	}
	if form, ok := m.Form(); ok {
		v.Form = &form
	}
	return v
}

func (h *collectionHandlers[T, P, F]) withManager(c *gin.Context) (*collection.Manager[T, P], bool) {
	ws, ok := h.open(c)
	if !ok {
		return nil, false
	}
	return h.manager(ws), true
}

func (h *collectionHandlers[T, P, F]) list(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(m, ""))
}

func (h *collectionHandlers[T, P, F]) add(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	key := m.Add(h.blank())
	c.JSON(http.StatusCreated, h.view(m, key))
}

func (h *collectionHandlers[T, P, F]) edit(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	if err := m.Edit(c.Param("key")); err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, c.Param("key")))
}

func (h *collectionHandlers[T, P, F]) cancel(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	m.CancelEdit()
	c.JSON(http.StatusOK, h.view(m, ""))
}

func (h *collectionHandlers[T, P, F]) commitEdit(c *gin.Context) {
	ws, ok := h.open(c)
	if !ok {
		return
	}

	var fields F
	if !bindJSON(c, &fields) {
		return
	}

	key, err := h.commit(c.Request.Context(), ws, c.Param("key"), fields)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Collection commit failed", map[string]interface{}{
			"collection": h.name,
			"company_id": ws.CompanyID,
			"key":        c.Param("key"),
			"error":      err.Error(),
		})
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(h.manager(ws), key))
}

func (h *collectionHandlers[T, P, F]) toggle(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	if _, err := m.ToggleActive(c.Request.Context(), c.Param("key")); err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, c.Param("key")))
}

func (h *collectionHandlers[T, P, F]) duplicate(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	key, err := m.Duplicate(c.Param("key"))
	if err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusCreated, h.view(m, key))
}

// remove requires ?confirm=true.
func (h *collectionHandlers[T, P, F]) remove(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	confirmed := c.Query("confirm") == "true"
	if err := m.Remove(c.Request.Context(), c.Param("key"), confirmed); err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, ""))
}

func (h *collectionHandlers[T, P, F]) reorder(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}

	var input struct {
		From *int `json:"from" binding:"required"`
		To   *int `json:"to" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	if err := m.Reorder(*input.From, *input.To); err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, ""))
}

// drag forwards pointer events: start and over carry the index under the pointer.
func (h *collectionHandlers[T, P, F]) drag(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}

	var input struct {
		Action string `json:"action" binding:"required,oneof=start over end"`
		Index  int    `json:"index"`
	}
	if !bindJSON(c, &input) {
		return
	}

	var err error
	switch input.Action {
	case "start":
		err = m.DragStart(input.Index)
	case "over":
		err = m.DragOver(input.Index)
	case "end":
		m.DragEnd()
	}
	if err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, ""))
}

func (h *collectionHandlers[T, P, F]) saveOrder(c *gin.Context) {
	m, ok := h.withManager(c)
	if !ok {
		return
	}
	if err := m.SaveOrder(c.Request.Context()); err != nil {
		apperrors.RespondWithAppError(c, err, h.name)
		return
	}
	c.JSON(http.StatusOK, h.view(m, ""))
}
