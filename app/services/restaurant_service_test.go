package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/geocode"
	"github.com/forkful/forkful/pkg/testkit"
	"github.com/forkful/forkful/pkg/workerpool"
)

func newRestaurantService(repo *testkit.RestaurantRepo, geo geocode.Geocoder, disk *testkit.Disk) (*services.RestaurantService, func()) {
	pool := workerpool.New(4)
	return services.NewRestaurantService(repo, geo, disk, pool), pool.Shutdown
}

func owner() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
}

var sfResult = &geocode.Result{
	Longitude: -122.3930, Latitude: 37.7936,
	FormattedAddress: "1 Market Street, San Francisco, CA, USA",
	City:             "San Francisco", State: "CA", Zipcode: "94105", Country: "us",
}

func TestFindAllPagination(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Result: sfResult}, testkit.NewDisk())
	defer done()
	ctx := context.Background()

	_, err := svc.FindAll(ctx, "pizza", 3)
	require.NoError(t, err)
	assert.Equal(t, "pizza", repo.LastQuery.Keyword)
	assert.Equal(t, int64(8), repo.LastQuery.Skip, "skip = 4×(page−1)")
	assert.Equal(t, int64(4), repo.LastQuery.Limit)

	// Page defaults to 1 for zero and negative values.
	_, err = svc.FindAll(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), repo.LastQuery.Skip)
}

func TestCreateGeocodesAddress(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Result: sfResult}, testkit.NewDisk())
	defer done()

	user := owner()
	restaurant, err := svc.Create(context.Background(), services.CreateRestaurantInput{
		Name: "Burger Barn", Description: "Smash burgers", Email: "hi@bb.dev",
		PhoneNo: "15550100002", Address: "1 Market St, San Francisco", Category: models.CategoryFastFood,
	}, user)
	require.NoError(t, err)

	assert.Equal(t, user.ID, restaurant.User)
	require.NotNil(t, restaurant.Location)
	assert.Equal(t, "Point", restaurant.Location.Type)
	assert.Equal(t, []float64{-122.3930, 37.7936}, restaurant.Location.Coordinates)
	assert.Equal(t, "San Francisco", restaurant.Location.City)
}

// A geocoder outage must not block creation; the record is stored without a
// location.
func TestCreateSurvivesGeocoderFailure(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Err: errors.New("provider down")}, testkit.NewDisk())
	defer done()

	restaurant, err := svc.Create(context.Background(), services.CreateRestaurantInput{
		Name: "Burger Barn", Description: "d", Email: "hi@bb.dev",
		PhoneNo: "15550100002", Address: "somewhere", Category: models.CategoryFastFood,
	}, owner())
	require.NoError(t, err)
	assert.Nil(t, restaurant.Location)
	assert.False(t, restaurant.ID.IsZero())
}

func TestFindByIDContract(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Result: sfResult}, testkit.NewDisk())
	defer done()
	ctx := context.Background()

	_, err := svc.FindByID(ctx, "not-a-hex-id")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))

	_, err = svc.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestUpdateRegeocodesOnAddressChange(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	geo := &testkit.Geocoder{Result: sfResult}
	svc, done := newRestaurantService(repo, geo, testkit.NewDisk())
	defer done()
	ctx := context.Background()

	restaurant, err := svc.Create(ctx, services.CreateRestaurantInput{
		Name: "Burger Barn", Description: "d", Email: "hi@bb.dev",
		PhoneNo: "15550100002", Address: "old", Category: models.CategoryFastFood,
	}, owner())
	require.NoError(t, err)

	name := "Burger Palace"
	updated, err := svc.UpdateByID(ctx, restaurant.ID.Hex(), services.UpdateRestaurantInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Burger Palace", updated.Name)
	assert.Equal(t, "d", updated.Description, "untouched fields survive")

	// Address change with a failing geocoder clears the location.
	geo.Result, geo.Err = nil, errors.New("down")
	addr := "new address"
	updated, err = svc.UpdateByID(ctx, restaurant.ID.Hex(), services.UpdateRestaurantInput{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "new address", updated.Address)
	assert.Nil(t, updated.Location)
}

func TestUploadImagesReplacesSet(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	disk := testkit.NewDisk()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Result: sfResult}, disk)
	defer done()
	ctx := context.Background()

	restaurant, err := svc.Create(ctx, services.CreateRestaurantInput{
		Name: "Burger Barn", Description: "d", Email: "hi@bb.dev",
		PhoneNo: "15550100002", Address: "a", Category: models.CategoryFastFood,
	}, owner())
	require.NoError(t, err)

	updated, err := svc.UploadImages(ctx, restaurant.ID.Hex(), []services.UploadFile{
		{Name: "front.jpg", Content: []byte("jpeg-1")},
		{Name: "menu.png", Content: []byte("png-2")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)

	prefix := "restaurants/" + restaurant.ID.Hex() + "/"
	for _, img := range updated.Images {
		assert.True(t, strings.HasPrefix(img.Key, prefix), "key %q must carry the restaurant prefix", img.Key)
		assert.True(t, disk.Exists(ctx, img.Key))
		assert.Equal(t, "https://cdn.test/"+img.Key, img.URL)
	}
	assert.True(t, strings.HasSuffix(updated.Images[0].Key, ".jpg"))
	assert.True(t, strings.HasSuffix(updated.Images[1].Key, ".png"))

	// A second upload replaces the previous set outright.
	updated, err = svc.UploadImages(ctx, restaurant.ID.Hex(), []services.UploadFile{
		{Name: "only.jpg", Content: []byte("jpeg-3")},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
}

func TestUploadImagesUnknownRestaurant(t *testing.T) {
	svc, done := newRestaurantService(testkit.NewRestaurantRepo(), &testkit.Geocoder{Result: sfResult}, testkit.NewDisk())
	defer done()

	_, err := svc.UploadImages(context.Background(), primitive.NewObjectID().Hex(), []services.UploadFile{
		{Name: "x.jpg", Content: []byte("x")},
	})
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestDeleteImages(t *testing.T) {
	disk := testkit.NewDisk()
	svc, done := newRestaurantService(testkit.NewRestaurantRepo(), &testkit.Geocoder{Result: sfResult}, disk)
	defer done()
	ctx := context.Background()

	assert.True(t, svc.DeleteImages(ctx, nil), "no images is a successful drain")

	disk.Objects["restaurants/x/a.jpg"] = []byte("a")
	ok := svc.DeleteImages(ctx, []models.Image{{Key: "restaurants/x/a.jpg"}})
	assert.True(t, ok)
	assert.False(t, disk.Exists(ctx, "restaurants/x/a.jpg"))

	disk.DelErr = errors.New("s3 down")
	assert.False(t, svc.DeleteImages(ctx, []models.Image{{Key: "k"}}))
}

func TestDetachImage(t *testing.T) {
	repo := testkit.NewRestaurantRepo()
	disk := testkit.NewDisk()
	svc, done := newRestaurantService(repo, &testkit.Geocoder{Result: sfResult}, disk)
	defer done()
	ctx := context.Background()

	restaurant, err := svc.Create(ctx, services.CreateRestaurantInput{
		Name: "Burger Barn", Description: "d", Email: "hi@bb.dev",
		PhoneNo: "15550100002", Address: "a", Category: models.CategoryFastFood,
	}, owner())
	require.NoError(t, err)

	updated, err := svc.UploadImages(ctx, restaurant.ID.Hex(), []services.UploadFile{
		{Name: "a.jpg", Content: []byte("a")},
		{Name: "b.jpg", Content: []byte("b")},
	})
	require.NoError(t, err)
	target := updated.Images[0].Key

	updated, err = svc.DetachImage(ctx, restaurant.ID.Hex(), target)
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
	assert.False(t, disk.Exists(ctx, target))
}
