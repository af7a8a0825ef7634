package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/bind"
	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/rbac"
	"github.com/forkful/forkful/pkg/response"
)

type MealController struct {
	service *services.MealService
}

func NewMealController(service *services.MealService) *MealController {
	return &MealController{service: service}
}

// Index lists every meal.
func (c *MealController) Index(w http.ResponseWriter, r *http.Request) {
	meals, err := c.service.FindAll(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, meals)
}

// ByRestaurant lists the meals of one restaurant.
func (c *MealController) ByRestaurant(w http.ResponseWriter, r *http.Request) {
	meals, err := c.service.FindByRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, meals)
}

// Show returns one meal.
func (c *MealController) Show(w http.ResponseWriter, r *http.Request) {
	meal, err := c.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, meal)
}

type createMealRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,in=Soups,Salads,Pasta,Pizza"`
	Restaurant  string  `json:"restaurant" validate:"required"`
}

// Create adds a meal to a restaurant the authenticated user owns.
func (c *MealController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body createMealRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	meal, err := c.service.Create(r.Context(), services.CreateMealInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
		Restaurant:  body.Restaurant,
	}, user)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, meal)
}

type updateMealRequest struct {
	Name        *string  `json:"name" validate:"nullable,min=2"`
	Description *string  `json:"description" validate:"nullable"`
	Price       *float64 `json:"price" validate:"nullable,gt=0"`
	Category    *string  `json:"category" validate:"nullable,in=Soups,Salads,Pasta,Pizza"`
}

// Update applies a partial update. Only the meal's owner may update.
func (c *MealController) Update(w http.ResponseWriter, r *http.Request) {
	meal, ok := c.owned(w, r, "You can not update this meal")
	if !ok {
		return
	}

	var body updateMealRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	updated, err := c.service.UpdateByID(r.Context(), meal.ID.Hex(), services.UpdateMealInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, updated)
}

// Destroy deletes the meal and removes it from the restaurant's menu.
func (c *MealController) Destroy(w http.ResponseWriter, r *http.Request) {
	meal, ok := c.owned(w, r, "You can not delete this meal")
	if !ok {
		return
	}

	if err := c.service.DeleteByID(r.Context(), meal.ID.Hex()); err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// owned loads the routed meal and enforces ownership, writing the error
// response itself when the check fails.
func (c *MealController) owned(w http.ResponseWriter, r *http.Request, forbiddenMsg string) (*models.Meal, bool) {
	user, ok := middleware.UserFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return nil, false
	}

	meal, err := c.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return nil, false
	}

	if !rbac.IsOwner(meal.User.Hex(), user.ID.Hex()) {
		response.FromError(w, apperr.Forbidden(forbiddenMsg))
		return nil, false
	}
	return meal, true
}
