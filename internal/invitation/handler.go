package invitation

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/trigger"
	"invitation-canvas-editor/internal/utils"
)

var registerOnce sync.Once

// RegisterValidations adds the "slug" rule to gin's validator.
func RegisterValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
				return utils.IsSlug(fl.Field().String())
			})
		}
	})
}

type Handler struct {
	service      Service
	pollInterval time.Duration
}

func NewHandler(service Service) *Handler {
	RegisterValidations()
	return &Handler{service: service, pollInterval: trigger.DefaultPollInterval}
}

// WithPollInterval sets how often trigger streams re-read storage.
func (h *Handler) WithPollInterval(d time.Duration) *Handler {
	if d > 0 {
		h.pollInterval = d
	}
	return h
}

// RegisterRoutes mounts reads on public and writes on private.
func (h *Handler) RegisterRoutes(public, private *gin.RouterGroup) {
	public.GET("/:collection", h.List)
	public.GET("/:collection/:id", h.Show)
	public.GET("/:collection/:id/trigger/stream", h.StreamTriggers)

	private.POST("/:collection", h.Create)
	private.PATCH("/:collection/:id", h.Update)
	private.DELETE("/:collection/:id", h.Delete)
	private.POST("/:collection/:id/trigger", h.FireTrigger)
}

func collectionParam(c *gin.Context) (domain.Collection, bool) {
	col := domain.Collection(c.Param("collection"))
	if !col.Valid() {
		c.Error(errors.NotFound("Collection not found", nil))
		return "", false
	}
	return col, true
}

func actorOf(c *gin.Context) Actor {
	return Actor{UserID: c.GetUint64("user_id"), Role: c.GetString("user_role")}
}

func (h *Handler) List(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	var f Filter
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.Error(errors.Invalid("user_id", "must be a positive integer"))
			return
		}
		f.UserID = id
	}
	f.Category = c.Query("category")
	f.Type = c.Query("type")
	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			c.Error(errors.Invalid("published", "must be a boolean"))
			return
		}
		f.Published = &published
	}

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.List(c.Request.Context(), col, f, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Show resolves :id as a storage id or a slug.
func (h *Handler) Show(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	rec, err := h.service.Get(c.Request.Context(), col, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Create(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	var rec domain.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), col, actorOf(c), &rec)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	var patch domain.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	result, err := h.service.Update(c.Request.Context(), col, actorOf(c), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Delete(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	result, err := h.service.Delete(c.Request.Context(), col, actorOf(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type TriggerRequest struct {
	Effect    string `json:"effect" binding:"required"`
	Name      string `json:"name"`
	Style     string `json:"style"`
	Timestamp int64  `json:"timestamp" binding:"gte=0"`
}

func (h *Handler) FireTrigger(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}

	var form TriggerRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	fired, err := h.service.FireTrigger(c.Request.Context(), col, actorOf(c), c.Param("id"), scene.Trigger{
		Effect:    form.Effect,
		Name:      form.Name,
		Style:     form.Style,
		Timestamp: form.Timestamp,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, fired)
}
