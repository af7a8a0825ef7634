package controllers

import (
	"net/http"

	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/pkg/bind"
	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignUp registers a new user. The password never appears in the response.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.SignUp(r.Context(), services.SignUpInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a bearer token. The body is the bare
// {"token": ...} object.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.service.Login(r.Context(), services.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me returns the authenticated user.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, user)
}
