package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yungbote/microservice-production/internal/data/db"
	"github.com/yungbote/microservice-production/internal/events"
	"github.com/yungbote/microservice-production/internal/http/response"
	"github.com/yungbote/microservice-production/internal/platform/apierr"
	"github.com/yungbote/microservice-production/internal/platform/ctxutil"
	"github.com/yungbote/microservice-production/internal/platform/logger"
	"github.com/yungbote/microservice-production/internal/resource"
)

const mimeMergePatch = "application/merge-patch+json"

// Routes is implemented by every record handler.
type Routes interface {
	Register(r gin.IRouter)
}

// RecordHandler exposes one Resource as a REST collection.
type RecordHandler[T any] struct {
	log        *logger.Logger
	res        *resource.Resource[T]
	collection string
	alerts     response.Alerts
	events     events.Publisher
	now        func() time.Time
}

func NewRecordHandler[T any](
	log *logger.Logger,
	res *resource.Resource[T],
	collection string,
	alerts response.Alerts,
	publisher events.Publisher,
) *RecordHandler[T] {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &RecordHandler[T]{
		log:        log.With("handler", res.Shape().Name+"Handler"),
		res:        res,
		collection: collection,
		alerts:     alerts,
		events:     publisher,
		now:        time.Now,
	}
}

func (h *RecordHandler[T]) Register(r gin.IRouter) {
	base := "/" + h.collection
	r.POST(base, h.Create)
	r.GET(base, h.List)
	r.GET(base+"/:id", h.Get)
	r.PUT(base+"/:id", h.Update)
	r.PATCH(base+"/:id", h.PartialUpdate)
	r.DELETE(base+"/:id", h.Delete)
}

// POST /api/{collection}
func (h *RecordHandler[T]) Create(c *gin.Context) {
	rec, ok := h.bindBody(c)
	if !ok {
		return
	}
	res, err := h.res.Create(c.Request.Context(), rec)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	id := h.idOf(res.Record)
	h.alerts.Created(c, h.entity(), id)
	h.publish(c, events.ActionCreated, id)
	response.RespondCreated(c, fmt.Sprintf("/api/%s/%d", h.collection, id), res.Record)
}

// PUT /api/{collection}/:id
func (h *RecordHandler[T]) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rec, ok := h.bindBody(c)
	if !ok {
		return
	}
	res, err := h.res.Update(c.Request.Context(), id, rec)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	h.alerts.Updated(c, h.entity(), id)
	h.publish(c, events.ActionUpdated, id)
	response.RespondOK(c, res.Record)
}

// PATCH /api/{collection}/:id
func (h *RecordHandler[T]) PartialUpdate(c *gin.Context) {
	if ct := c.ContentType(); ct != mimeMergePatch && ct != binding.MIMEJSON {
		h.respondRecordError(c, apierr.New(http.StatusUnsupportedMediaType, "unsupported_media_type",
			fmt.Errorf("content type %q is not supported, use %s", ct, mimeMergePatch)))
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	patch, ok := h.bindBody(c)
	if !ok {
		return
	}
	res, err := h.res.PartialUpdate(c.Request.Context(), id, patch)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	h.alerts.Updated(c, h.entity(), id)
	h.publish(c, events.ActionUpdated, id)
	response.RespondOK(c, res.Record)
}

// GET /api/{collection}?page=&size=&sort=
func (h *RecordHandler[T]) List(c *gin.Context) {
	req, err := parsePageRequest(c)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	page, meta, err := h.res.List(c.Request.Context(), req)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	response.WritePageHeaders(c, meta)
	response.RespondOK(c, page.Items)
}

// GET /api/{collection}/:id
func (h *RecordHandler[T]) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rec, err := h.res.Get(c.Request.Context(), id)
	if err != nil {
		h.respondRecordError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// DELETE /api/{collection}/:id
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.res.Delete(c.Request.Context(), id); err != nil {
		h.respondRecordError(c, err)
		return
	}
	h.alerts.Deleted(c, h.entity(), id)
	h.publish(c, events.ActionDeleted, id)
	response.RespondNoContent(c)
}

func (h *RecordHandler[T]) bindBody(c *gin.Context) (*T, bool) {
	rec := new(T)
	if err := c.ShouldBindWith(rec, binding.JSON); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondRecordError(c, apierr.New(http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)))
			return nil, false
		}
		h.respondRecordError(c, apierr.BadRequest("invalid_body", err))
		return nil, false
	}
	return rec, true
}

func (h *RecordHandler[T]) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		h.respondRecordError(c, apierr.BadRequest("invalid_id", fmt.Errorf("id must be an integer")))
		return 0, false
	}
	return id, true
}

func (h *RecordHandler[T]) entity() string { return h.res.Shape().Name }

func (h *RecordHandler[T]) idOf(rec *T) int64 {
	if id := h.res.Shape().ID(rec); id != nil {
		return *id
	}
	return 0
}

func (h *RecordHandler[T]) publish(c *gin.Context, action events.Action, id int64) {
	ctx := c.Request.Context()
	_ = h.events.Publish(ctx, events.Event{
		Entity:     h.entity(),
		Collection: h.collection,
		Action:     action,
		ID:         id,
		At:         h.now().UTC(),
		RequestID:  ctxutil.RequestID(ctx),
	})
}

func (h *RecordHandler[T]) respondRecordError(c *gin.Context, err error) {
	if ce, ok := resource.AsContractError(err); ok {
		code := string(ce.Reason)
		h.alerts.Failure(c, ce.Entity, code)
		response.RespondAPIError(c, http.StatusBadRequest, response.APIError{
			Message: ce.Error(),
			Code:    code,
			Entity:  h.alerts.EntityName(ce.Entity),
			Field:   ce.Field,
		})
		return
	}
	if ae, ok := apierr.From(err); ok {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, resource.ErrNoRecord):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, resource.ErrInvalidSort):
		response.RespondError(c, http.StatusBadRequest, "invalid_sort", err)
	case resource.IsStorageFault(err):
		h.log.Error("storage fault", "error", err, "reason", db.Classify(err), "request_id", ctxutil.RequestID(c.Request.Context()))
		response.RespondError(c, http.StatusInternalServerError, "storage_fault", errors.New("internal server error"))
	default:
		h.log.Error("unexpected error", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
