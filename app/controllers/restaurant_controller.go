package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/bind"
	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/rbac"
	"github.com/forkful/forkful/pkg/response"
)

// maxUploadBytes caps a whole multipart upload request.
const maxUploadBytes = 32 << 20

type RestaurantController struct {
	service *services.RestaurantService
}

func NewRestaurantController(service *services.RestaurantService) *RestaurantController {
	return &RestaurantController{service: service}
}

// Index lists restaurants. Supports ?keyword= and ?currentPage=.
func (c *RestaurantController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("currentPage"))

	restaurants, err := c.service.FindAll(r.Context(), r.URL.Query().Get("keyword"), page)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, restaurants)
}

type createRestaurantRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNo     string `json:"phoneNo" validate:"required,min=7"`
	Address     string `json:"address" validate:"required"`
	Category    string `json:"category" validate:"required,in=Fast Food,Cafe,Fine Dining"`
}

// Create registers a new restaurant owned by the authenticated user.
func (c *RestaurantController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body createRestaurantRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	restaurant, err := c.service.Create(r.Context(), services.CreateRestaurantInput{
		Name:        body.Name,
		Description: body.Description,
		Email:       body.Email,
		PhoneNo:     body.PhoneNo,
		Address:     body.Address,
		Category:    body.Category,
	}, user)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, restaurant)
}

// Show returns one restaurant.
func (c *RestaurantController) Show(w http.ResponseWriter, r *http.Request) {
	restaurant, err := c.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, restaurant)
}

type updateRestaurantRequest struct {
	Name        *string `json:"name" validate:"nullable,min=2"`
	Description *string `json:"description" validate:"nullable"`
	Email       *string `json:"email" validate:"nullable,email"`
	PhoneNo     *string `json:"phoneNo" validate:"nullable,min=7"`
	Address     *string `json:"address" validate:"nullable"`
	Category    *string `json:"category" validate:"nullable,in=Fast Food,Cafe,Fine Dining"`
}

// Update applies a partial update. Only the owner may update.
func (c *RestaurantController) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := c.owned(w, r, "You can not update this restaurant")
	if !ok {
		return
	}

	var body updateRestaurantRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	updated, err := c.service.UpdateByID(r.Context(), restaurant.ID.Hex(), services.UpdateRestaurantInput{
		Name:        body.Name,
		Description: body.Description,
		Email:       body.Email,
		PhoneNo:     body.PhoneNo,
		Address:     body.Address,
		Category:    body.Category,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, updated)
}

// Destroy drains the restaurant's images from object storage and, only when
// that succeeds, deletes the record. The body is the bare {"deleted": bool}
// object either way.
func (c *RestaurantController) Destroy(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := c.owned(w, r, "You can not delete this restaurant")
	if !ok {
		return
	}

	if !c.service.DeleteImages(r.Context(), restaurant.Images) {
		response.JSON(w, http.StatusOK, map[string]bool{"deleted": false})
		return
	}

	if err := c.service.DeleteByID(r.Context(), restaurant.ID.Hex()); err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Upload replaces the restaurant's images with the uploaded files
// (multipart field "files").
func (c *RestaurantController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.Error(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "unreadable file "+h.Filename)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "unreadable file "+h.Filename)
			return
		}
		files = append(files, services.UploadFile{Name: h.Filename, Content: content})
	}

	restaurant, err := c.service.UploadImages(r.Context(), chi.URLParam(r, "id"), files)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, restaurant)
}

// DetachImage removes a single image by storage key. The key is the route
// wildcard remainder because object keys contain slashes.
func (c *RestaurantController) DetachImage(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := c.owned(w, r, "You can not modify this restaurant")
	if !ok {
		return
	}

	key := chi.URLParam(r, "*")
	found := false
	for _, img := range restaurant.Images {
		if img.Key == key {
			found = true
			break
		}
	}
	if !found {
		response.FromError(w, apperr.NotFound("Image not found"))
		return
	}

	updated, err := c.service.DetachImage(r.Context(), restaurant.ID.Hex(), key)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, updated)
}

// owned loads the routed restaurant and enforces ownership, writing the
// error response itself when the check fails.
func (c *RestaurantController) owned(w http.ResponseWriter, r *http.Request, forbiddenMsg string) (*models.Restaurant, bool) {
	user, ok := middleware.UserFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return nil, false
	}

	restaurant, err := c.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return nil, false
	}

	if !rbac.IsOwner(restaurant.User.Hex(), user.ID.Hex()) {
		response.FromError(w, apperr.Forbidden(forbiddenMsg))
		return nil, false
	}
	return restaurant, true
}
