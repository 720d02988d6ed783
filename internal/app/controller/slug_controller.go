package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/directorio-backend/internal/app/service"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/middleware"
	"github.com/ikkim/directorio-backend/internal/websocket"
)

type SlugController struct {
	slugService service.SlugService
	hub         *websocket.Hub
	debounce    time.Duration
	upgrader    gorillaws.Upgrader
}

func NewSlugController(slugService service.SlugService, hub *websocket.Hub, debounce time.Duration, allowedOrigins []string) *SlugController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &SlugController{
		slugService: slugService,
		hub:         hub,
		debounce:    debounce,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func checkOptions(c *gin.Context) (service.SlugCheckOptions, bool) {
	opts := service.SlugCheckOptions{CurrentSlug: c.Query("current_slug")}
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identificador inválido")
			return opts, false
		}
		opts.ExcludeID = uint(id)
	}
	return opts, true
}

// Check answers one availability lookup.
// GET /api/v1/slugs/check?candidate=&exclude_id=&current_slug=
func (ctrl *SlugController) Check(c *gin.Context) {
	opts, ok := checkOptions(c)
	if !ok {
		return
	}

	result := ctrl.slugService.CheckAvailability(c.Request.Context(), strings.TrimSpace(c.Query("candidate")), opts)
	c.JSON(http.StatusOK, result)
}

// Derive returns the slug a name maps to.
// GET /api/v1/slugs/derive?name=
func (ctrl *SlugController) Derive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"candidate": ctrl.slugService.Derive(c.Query("name")),
	})
}

// liveWatcher cancels in-flight lookups when the connection closes.
type liveWatcher struct {
	*service.SlugWatcher
	cancel context.CancelFunc
}

func (w *liveWatcher) Close() {
	w.SlugWatcher.Close()
	w.cancel()
}

// Live streams debounced availability results while the user types.
// GET /api/v1/slugs/live (WebSocket)
func (ctrl *SlugController) Live(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts, ok := checkOptions(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: conn}, uuid.NewString(), currentUser(c))

	ctx, cancel := context.WithCancel(context.Background())
	watcher := service.NewSlugWatcher(ctx, ctrl.slugService, ctrl.debounce, opts, func(result service.SlugResult) {
		client.Deliver(websocket.ServerMessage{
			Type:      websocket.MessageResult,
			Candidate: result.Candidate,
			Status:    string(result.Status),
			Reason:    result.Reason,
		})
	})
	client.Watcher = &liveWatcher{SlugWatcher: watcher, cancel: cancel}

	ctrl.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()

	log.Info("Slug live check connected", map[string]interface{}{
		"client_id": client.ID,
		"owner_id":  client.OwnerID,
	})
}
