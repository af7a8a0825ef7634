// Package routes wires controllers onto the project router.
package routes

import (
	"net/http"
	"time"

	"github.com/forkful/forkful/app/controllers"
	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/pkg/metrics"
	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/rbac"
	"github.com/forkful/forkful/pkg/response"
	"github.com/forkful/forkful/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Restaurant *controllers.RestaurantController
	Meal       *controllers.MealController
	Resolver   middleware.UserResolver
}

// RegisterAPI mounts the full HTTP surface. Global middleware is installed
// by internal/server; only route-scoped middleware lives here.
func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	authed := middleware.Auth(c.Resolver)

	auth := r.Group("/auth", middleware.RateLimit(20, time.Minute))
	auth.Post("/signup", "auth.signup", c.Auth.SignUp)
	auth.Post("/login", "auth.login", c.Auth.Login)
	auth.Get("/me", "auth.me", c.Auth.Me, authed)

	restaurants := r.Group("/restaurants")
	restaurants.Get("", "restaurants.index", c.Restaurant.Index)
	restaurants.Post("", "restaurants.create", c.Restaurant.Create,
		authed, rbac.HasRole(models.RoleAdmin, models.RoleUser))
	restaurants.Get("/{id}", "restaurants.show", c.Restaurant.Show)
	restaurants.Put("/{id}", "restaurants.update", c.Restaurant.Update, authed)
	restaurants.Delete("/{id}", "restaurants.destroy", c.Restaurant.Destroy, authed)
	restaurants.Put("/upload/{id}", "restaurants.upload", c.Restaurant.Upload, authed)
	// Wildcard keeps slashes in object-storage keys routable.
	restaurants.Delete("/{id}/images/*", "restaurants.images.detach", c.Restaurant.DetachImage, authed)

	meals := r.Group("/meals")
	meals.Get("", "meals.index", c.Meal.Index)
	meals.Get("/{id}", "meals.show", c.Meal.Show)
	meals.Get("/restaurant/{id}", "meals.by_restaurant", c.Meal.ByRestaurant)
	meals.Post("", "meals.create", c.Meal.Create, authed)
	meals.Put("/{id}", "meals.update", c.Meal.Update, authed)
	meals.Delete("/{id}", "meals.destroy", c.Meal.Destroy, authed)
}
