// Package testkit provides in-memory test doubles for the persistence and
// external-service boundaries, so service and HTTP tests run without
// MongoDB, Redis or object storage.
package testkit

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/repositories"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/geocode"
)

// ── users ─────────────────────────────────────────────────────────────────────

// UserRepo is an in-memory repositories.UserRepository with a unique-email
// constraint.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]*models.User // by hex id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: map[string]*models.User{}}
}

func (f *UserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.Users {
		if existing.Email == u.Email {
			return apperr.Conflict("Duplicate email entered")
		}
	}
	u.ID = primitive.NewObjectID()
	f.Users[u.ID.Hex()] = u
	return nil
}

func (f *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *UserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.BadRequest("invalid id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.Users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

// Delete removes a user directly, bypassing any API surface.
func (f *UserRepo) Delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Users, id)
}

// ── restaurants ───────────────────────────────────────────────────────────────

// RestaurantRepo is an in-memory repositories.RestaurantRepository. It
// records the last list query so pagination arithmetic can be asserted.
type RestaurantRepo struct {
	mu          sync.Mutex
	Restaurants map[string]*models.Restaurant
	LastQuery   repositories.RestaurantQuery
}

func NewRestaurantRepo() *RestaurantRepo {
	return &RestaurantRepo{Restaurants: map[string]*models.Restaurant{}}
}

func (f *RestaurantRepo) Create(_ context.Context, r *models.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = primitive.NewObjectID()
	if r.Images == nil {
		r.Images = []models.Image{}
	}
	if r.Menu == nil {
		r.Menu = []primitive.ObjectID{}
	}
	f.Restaurants[r.ID.Hex()] = r
	return nil
}

func (f *RestaurantRepo) Find(_ context.Context, q repositories.RestaurantQuery) ([]models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = q
	out := []models.Restaurant{}
	for _, r := range f.Restaurants {
		out = append(out, *r)
	}
	return out, nil
}

func (f *RestaurantRepo) FindByID(_ context.Context, id string) (*models.Restaurant, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.BadRequest("invalid id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.Restaurants[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, apperr.NotFound("Restaurant not found")
}

func (f *RestaurantRepo) UpdateByID(_ context.Context, id string, set bson.M) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Restaurants[id]
	if !ok {
		return nil, apperr.NotFound("Restaurant not found")
	}
	for k, v := range set {
		switch k {
		case "name":
			r.Name = v.(string)
		case "description":
			r.Description = v.(string)
		case "email":
			r.Email = v.(string)
		case "phoneNo":
			r.PhoneNo = v.(string)
		case "address":
			r.Address = v.(string)
		case "category":
			r.Category = v.(string)
		case "location":
			loc, _ := v.(*models.Location)
			r.Location = loc
		case "images":
			r.Images = v.([]models.Image)
		}
	}
	cp := *r
	return &cp, nil
}

func (f *RestaurantRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Restaurants[id]; !ok {
		return apperr.NotFound("Restaurant not found")
	}
	delete(f.Restaurants, id)
	return nil
}

func (f *RestaurantRepo) SetImages(ctx context.Context, id string, images []models.Image) (*models.Restaurant, error) {
	return f.UpdateByID(ctx, id, bson.M{"images": images})
}

func (f *RestaurantRepo) RemoveImage(_ context.Context, id, key string) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Restaurants[id]
	if !ok {
		return nil, apperr.NotFound("Restaurant not found")
	}
	kept := r.Images[:0]
	for _, img := range r.Images {
		if img.Key != key {
			kept = append(kept, img)
		}
	}
	r.Images = kept
	cp := *r
	return &cp, nil
}

func (f *RestaurantRepo) PushMeal(_ context.Context, restaurantID, mealID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Restaurants[restaurantID.Hex()]
	if !ok {
		return apperr.NotFound("Restaurant not found")
	}
	r.Menu = append(r.Menu, mealID)
	return nil
}

func (f *RestaurantRepo) PullMeal(_ context.Context, restaurantID, mealID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Restaurants[restaurantID.Hex()]
	if !ok {
		return apperr.NotFound("Restaurant not found")
	}
	kept := r.Menu[:0]
	for _, id := range r.Menu {
		if id != mealID {
			kept = append(kept, id)
		}
	}
	r.Menu = kept
	return nil
}

// ── meals ─────────────────────────────────────────────────────────────────────

// MealRepo is an in-memory repositories.MealRepository.
type MealRepo struct {
	mu    sync.Mutex
	Meals map[string]*models.Meal
}

func NewMealRepo() *MealRepo {
	return &MealRepo{Meals: map[string]*models.Meal{}}
}

func (f *MealRepo) Create(_ context.Context, m *models.Meal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.Meals[m.ID.Hex()] = m
	return nil
}

func (f *MealRepo) Find(_ context.Context, q repositories.MealQuery) ([]models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Meal{}
	for _, m := range f.Meals {
		if q.Restaurant != nil && m.Restaurant != *q.Restaurant {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *MealRepo) FindByID(_ context.Context, id string) (*models.Meal, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.BadRequest("invalid id")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.Meals[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperr.NotFound("Meal not found")
}

func (f *MealRepo) UpdateByID(_ context.Context, id string, set bson.M) (*models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Meals[id]
	if !ok {
		return nil, apperr.NotFound("Meal not found")
	}
	for k, v := range set {
		switch k {
		case "name":
			m.Name = v.(string)
		case "description":
			m.Description = v.(string)
		case "price":
			m.Price = v.(float64)
		case "category":
			m.Category = v.(string)
		}
	}
	cp := *m
	return &cp, nil
}

func (f *MealRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Meals[id]; !ok {
		return apperr.NotFound("Meal not found")
	}
	delete(f.Meals, id)
	return nil
}

// ── geocoder ──────────────────────────────────────────────────────────────────

// Geocoder is a canned geocode.Geocoder.
type Geocoder struct {
	Result *geocode.Result
	Err    error
}

func (f *Geocoder) Geocode(context.Context, string) (*geocode.Result, error) {
	return f.Result, f.Err
}

// ── object storage ────────────────────────────────────────────────────────────

// Disk is an in-memory storage.Disk. PutErr and DelErr force failures.
type Disk struct {
	mu      sync.Mutex
	Objects map[string][]byte
	PutErr  error
	DelErr  error
}

func NewDisk() *Disk {
	return &Disk{Objects: map[string][]byte{}}
}

func (f *Disk) Put(_ context.Context, path string, r io.Reader) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[path] = data
	return nil
}

func (f *Disk) Get(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.Objects[path]; ok {
		return data, nil
	}
	return nil, errors.New("not found")
}

func (f *Disk) Exists(_ context.Context, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[path]
	return ok
}

func (f *Disk) Delete(_ context.Context, path string) error {
	if f.DelErr != nil {
		return f.DelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, path)
	return nil
}

func (f *Disk) DeleteAll(ctx context.Context, paths []string) error {
	if f.DelErr != nil {
		return f.DelErr
	}
	for _, p := range paths {
		if err := f.Delete(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (f *Disk) URL(path string) string { return "https://cdn.test/" + path }
