// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/query"
)

// Multipart field names of image and gif uploads.
const (
	formFile         = "file"
	formCaption      = "caption"
	formDescription  = "description"
	formCamera       = "camera"
	formLens         = "lens"
	formFocalLength  = "focal_length"
	formFStop        = "f_stop"
	formShutterSpeed = "shutter_speed"
	formISO          = "iso"
	formLocation     = "location"
	formCapturedAt   = "captured_at"
	formAuthor       = "author"
)

// # Handler Implementation

// Handler implements the HTTP layer for collections.
type Handler struct {
	service        *Service
	maxUploadBytes int64
}

// NewHandler constructs a collection [Handler].
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// PublicRoutes returns the read-only surface mounted at /collections.
// Protected collections require the X-Collection-Grant header.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listVisible)
	router.Get("/{ref}", handler.getCollection)
	router.Get("/{ref}/page", handler.getPage)
	router.Get("/{ref}/all", handler.getAll)

	return router
}

// AdminRoutes returns the write surface mounted at /admin/collections.
// The caller is responsible for the API key guard.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	// ## Collections
	router.Get("/", handler.listAll)
	router.Post("/", handler.createCollection)

	router.Group(func(owned chi.Router) {
		owned.Use(requireCollectionID)

		owned.Get("/{id}/page", handler.getOwnerPage)
		owned.Patch("/{id}", handler.updateCollection)
		owned.Delete("/{id}", handler.deleteCollection)

		// ## Password Gate
		owned.Put("/{id}/password", handler.setPassword)
		owned.Delete("/{id}/password", handler.clearPassword)

		// ## Placements
		owned.Post("/{id}/content", handler.addContent)
		owned.Post("/{id}/content/text", handler.addText)
		owned.Post("/{id}/content/code", handler.addCode)
		owned.Post("/{id}/content/image", handler.addImage)
		owned.Post("/{id}/content/gif", handler.addGif)
		owned.Put("/{id}/order", handler.reorder)
		owned.Patch("/{id}/content/{contentID}", handler.updatePlacement)
		owned.Delete("/{id}/content/{contentID}", handler.removeContent)
	})

	return router
}

// ContentRoutes returns the content item surface mounted at /admin/content.
func (handler *Handler) ContentRoutes() chi.Router {
	router := chi.NewRouter()

	router.Patch("/{contentID}", handler.updateContent)
	router.Delete("/{contentID}", handler.deleteContent)

	return router
}

// # Public Reads

/*
GET /api/v1/collections.

Description: Lists visible collections, optionally narrowed by type.

Request:
  - type: []string (blog, portfolio, art_gallery, client_gallery)
  - page: int
  - limit: int

Response:
  - 200: []Collection
*/
func (handler *Handler) listVisible(writer http.ResponseWriter, request *http.Request) {
	visible := true
	handler.list(writer, request, Filter{Types: parseTypes(request), Visible: &visible})
}

// GET /api/v1/collections/{ref}.
func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	collection, err := handler.service.Get(request.Context(), requestutil.Param(request, "ref"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collection)
}

/*
GET /api/v1/collections/{ref}/page.

Description: Returns one page of visible placements. Protected collections
need a grant from the unlock endpoint in X-Collection-Grant.

Request:
  - ref: string (UUID or slug)
  - page: int (default 1)
  - size: int (default: the collection's content per page)

Response:
  - 200: PagedView
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED (missing or expired grant)
  - 404: NOT_FOUND
*/
func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	handler.page(writer, request, requestutil.Param(request, "ref"), Access{Grant: requestutil.Grant(request)})
}

// GET /api/v1/collections/{ref}/all.
func (handler *Handler) getAll(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.GetAll(request.Context(), requestutil.Param(request, "ref"), Access{Grant: requestutil.Grant(request)})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

// # Collection Management

/*
GET /api/v1/admin/collections.

Request:
  - type: []string
  - visible: bool
  - page: int
  - limit: int
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	handler.list(writer, request, Filter{Types: parseTypes(request), Visible: requestutil.QueryBool(request, "visible")})
}

// GET /api/v1/admin/collections/{id}/page, hidden placements included.
func (handler *Handler) getOwnerPage(writer http.ResponseWriter, request *http.Request) {
	handler.page(writer, request, requestutil.Param(request, "id"), OwnerAccess)
}

/*
POST /api/v1/admin/collections.

Request:
  - CreateInput (JSON)

Response:
  - 201: Collection
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) createCollection(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collection, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, collection)
}

// PATCH /api/v1/admin/collections/{id}.
func (handler *Handler) updateCollection(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collection, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collection)
}

// DELETE /api/v1/admin/collections/{id}.
func (handler *Handler) deleteCollection(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// passwordRequest is the body of PUT /password.
type passwordRequest struct {
	Password *string `json:"password"`
}

// PUT /api/v1/admin/collections/{id}/password.
func (handler *Handler) setPassword(writer http.ResponseWriter, request *http.Request) {
	var body passwordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if body.Password == nil {
		respond.Error(writer, request, validate.RequiredError(FieldPassword, "This field is required"))
		return
	}

	if err := handler.service.SetPassword(request.Context(), requestutil.Param(request, "id"), *body.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// DELETE /api/v1/admin/collections/{id}/password.
func (handler *Handler) clearPassword(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.ClearPassword(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Placements

/*
POST /api/v1/admin/collections/{id}/content.

Description: Places an existing content item.

Request:
  - AddContentInput (JSON)

Response:
  - 201: Link
  - 404: NOT_FOUND (collection or content)
  - 409: CONFLICT (already placed, or order index taken)
*/
func (handler *Handler) addContent(writer http.ResponseWriter, request *http.Request) {
	var input AddContentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	link, err := handler.service.AddContent(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, link)
}

// textRequest is the JSON body of a text submission.
type textRequest struct {
	Caption     *string `json:"caption"`
	Description *string `json:"description"`
	content.TextInput
}

// POST /api/v1/admin/collections/{id}/content/text.
func (handler *Handler) addText(writer http.ResponseWriter, request *http.Request) {
	var body textRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.ingest(writer, request, content.CreateRequest{
		Kind:        string(content.KindText),
		Caption:     body.Caption,
		Description: body.Description,
		Text:        &body.TextInput,
	})
}

// codeRequest is the JSON body of a code submission.
type codeRequest struct {
	Caption     *string `json:"caption"`
	Description *string `json:"description"`
	content.CodeInput
}

// POST /api/v1/admin/collections/{id}/content/code.
func (handler *Handler) addCode(writer http.ResponseWriter, request *http.Request) {
	var body codeRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.ingest(writer, request, content.CreateRequest{
		Kind:        string(content.KindCode),
		Caption:     body.Caption,
		Description: body.Description,
		Code:        &body.CodeInput,
	})
}

/*
POST /api/v1/admin/collections/{id}/content/image.

Request (multipart/form-data):
  - file: binary (required)
  - caption, description, camera, lens, focal_length, f_stop,
    shutter_speed, location: string
  - iso: int
  - captured_at: RFC 3339 timestamp

Response:
  - 201: Content
  - 400: VALIDATION_ERROR
  - 500: INTERNAL_ERROR (upload not produced)
*/
func (handler *Handler) addImage(writer http.ResponseWriter, request *http.Request) {
	upload, err := handler.upload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	iso, capturedAt, err := parseImageNumbers(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.ingest(writer, request, content.CreateRequest{
		Kind:        string(content.KindImage),
		Caption:     requestutil.FormValue(request, formCaption),
		Description: requestutil.FormValue(request, formDescription),
		Image: &content.ImageInput{
			Upload:       *upload,
			Camera:       requestutil.FormValue(request, formCamera),
			Lens:         requestutil.FormValue(request, formLens),
			FocalLength:  requestutil.FormValue(request, formFocalLength),
			FStop:        requestutil.FormValue(request, formFStop),
			ShutterSpeed: requestutil.FormValue(request, formShutterSpeed),
			ISO:          iso,
			Location:     requestutil.FormValue(request, formLocation),
			CapturedAt:   capturedAt,
		},
	})
}

// POST /api/v1/admin/collections/{id}/content/gif (multipart: file, caption, description, author).
func (handler *Handler) addGif(writer http.ResponseWriter, request *http.Request) {
	upload, err := handler.upload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.ingest(writer, request, content.CreateRequest{
		Kind:        string(content.KindGif),
		Caption:     requestutil.FormValue(request, formCaption),
		Description: requestutil.FormValue(request, formDescription),
		Gif: &content.GifInput{
			Upload: *upload,
			Author: requestutil.FormValue(request, formAuthor),
		},
	})
}

// reorderRequest is the body of PUT /order.
type reorderRequest struct {
	Instructions []Instruction `json:"instructions"`
}

/*
PUT /api/v1/admin/collections/{id}/order.

Description: Applies a reorder batch atomically and returns the first page.

Request:
  - instructions: []{content_id, order_index}

Response:
  - 200: PagedView
  - 400: VALIDATION_ERROR (nothing was changed)
  - 404: NOT_FOUND
*/
func (handler *Handler) reorder(writer http.ResponseWriter, request *http.Request) {
	var body reorderRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Reorder(request.Context(), requestutil.Param(request, "id"), body.Instructions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// PATCH /api/v1/admin/collections/{id}/content/{contentID}.
func (handler *Handler) updatePlacement(writer http.ResponseWriter, request *http.Request) {
	var update PlacementUpdate
	if err := requestutil.DecodeJSON(request, &update); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contentID, err := contentParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	link, err := handler.service.UpdatePlacement(request.Context(), requestutil.Param(request, "id"), contentID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, link)
}

// DELETE /api/v1/admin/collections/{id}/content/{contentID}.
func (handler *Handler) removeContent(writer http.ResponseWriter, request *http.Request) {
	contentID, err := contentParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveContent(request.Context(), requestutil.Param(request, "id"), contentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Content Items

// PATCH /api/v1/admin/content/{contentID}.
func (handler *Handler) updateContent(writer http.ResponseWriter, request *http.Request) {
	var update content.UpdateRequest
	if err := requestutil.DecodeJSON(request, &update); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contentID, err := contentParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.UpdateContent(request.Context(), contentID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

// DELETE /api/v1/admin/content/{contentID}. Placed content is a conflict.
func (handler *Handler) deleteContent(writer http.ResponseWriter, request *http.Request) {
	contentID, err := contentParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteContent(request.Context(), contentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Internal Helpers

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, filter Filter) {
	params := pagination.FromRequest(request)

	collections, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, collections, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) page(writer http.ResponseWriter, request *http.Request, ref string, access Access) {
	view, err := handler.service.GetPage(request.Context(), ref, PageRequest{
		Page:   requestutil.QueryInt(request, FieldPage, 1),
		Size:   requestutil.QueryInt(request, FieldSize, 0),
		Access: access,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

func (handler *Handler) ingest(writer http.ResponseWriter, request *http.Request, create content.CreateRequest) {
	item, err := handler.service.AddNew(request.Context(), requestutil.Param(request, "id"), create)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, item)
}

func (handler *Handler) upload(request *http.Request) (*content.Upload, error) {
	file, err := requestutil.FormFile(request, formFile, handler.maxUploadBytes)
	if err != nil {
		return nil, err
	}
	return &content.Upload{Filename: file.Name, ContentType: file.ContentType, Data: file.Data}, nil
}

// requireCollectionID rejects admin routes whose {id} segment is not a UUID.
func requireCollectionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		validator := &validate.Validator{}
		if err := validator.UUID(FieldID, requestutil.Param(request, "id")).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// contentParam reads the {contentID} path segment, which must be a UUID.
func contentParam(request *http.Request) (string, error) {
	contentID := requestutil.Param(request, "contentID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldContentID, contentID).Err(); err != nil {
		return "", err
	}
	return contentID, nil
}

// parseImageNumbers reads the typed optional image fields.
func parseImageNumbers(request *http.Request) (*int, *time.Time, error) {
	var iso *int
	var capturedAt *time.Time

	if raw := requestutil.FormValue(request, formISO); raw != nil && strings.TrimSpace(*raw) != "" {
		value, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return nil, nil, validate.RequiredError(content.FieldISO, "Must be an integer")
		}
		iso = &value
	}

	if raw := requestutil.FormValue(request, formCapturedAt); raw != nil && strings.TrimSpace(*raw) != "" {
		value, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
		if err != nil {
			return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{Field: formCapturedAt, Message: "Must be an RFC 3339 timestamp"})
		}
		capturedAt = &value
	}

	return iso, capturedAt, nil
}

func parseTypes(request *http.Request) []Type {
	values := query.StringSlice(request.URL.Query()["type"])
	types := make([]Type, 0, len(values))
	for _, value := range values {
		types = append(types, Type(value))
	}
	return types
}
