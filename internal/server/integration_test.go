//go:build integration

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starwars-api/internal/auth"
	"starwars-api/internal/favorite"
	"starwars-api/internal/people"
	"starwars-api/internal/planet"
	"starwars-api/internal/seed"
	"starwars-api/internal/shared/config"
	"starwars-api/internal/shared/cookies"
	"starwars-api/internal/shared/database/databasetest"
	"starwars-api/internal/shared/errors"
	"starwars-api/internal/shared/obs"
	"starwars-api/internal/user"
)

func newIntegrationAPI(t *testing.T, seedURL string) http.Handler {
	t.Helper()

	db := databasetest.StartPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userService := user.NewService(user.NewRepository(db, logger), db, logger)
	peopleService := people.NewService(people.NewRepository(db, logger), db, logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), db, logger)
	favoriteService := favorite.NewService(favorite.NewRepository(db, logger), db, peopleService, planetService, logger)

	_, created, err := userService.EnsureUser(t.Context(), "admin@starwars.dev", "rebellion")
	require.NoError(t, err)
	require.True(t, created)

	authService := auth.NewService(userService,
		auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour),
		auth.NewMemoryRevoker(), logger)

	metrics := obs.NewMetrics()
	importer := seed.NewImporter(
		seed.NewClient(config.SeedConfig{BaseURL: seedURL, PageLimit: 20, TimeoutSeconds: 5}, logger),
		peopleService, planetService, metrics.SeedRows, logger)

	routes := NewRoutes(RoutesConfig{
		DB:              db,
		AuthService:     authService,
		AuthHandler:     auth.NewHandler(authService, cookies.Policy{}),
		UserService:     userService,
		PeopleService:   peopleService,
		PlanetService:   planetService,
		FavoriteService: favoriteService,
		Importer:        importer,
		Metrics:         metrics,
	})
	return withStack(routes.Setup(), metrics)
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := request(h, http.MethodPost, "/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result.Token
}

func TestCatalogFlow(t *testing.T) {
	h := newIntegrationAPI(t, "http://127.0.0.1:1")
	admin := login(t, h, "admin@starwars.dev", "rebellion")

	rec := request(h, http.MethodPost, "/login", "", `{"email":"admin@starwars.dev","password":"wrong"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// a second user
	rec = request(h, http.MethodPost, "/user", admin, `{"email":"leia@rebellion.org","password":"alderaan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = request(h, http.MethodPost, "/user", admin, `{"email":"leia@rebellion.org","password":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "users_email_key")

	leia := login(t, h, "leia@rebellion.org", "alderaan")

	// catalog rows
	luke := `{"name":"Luke Skywalker","height":172,"mass":77,"hair_color":"blond","skin_color":"fair","eye_color":"blue","birth_year":"19BBY","gender":"male"}`
	rec = request(h, http.MethodPost, "/people", admin, luke)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = request(h, http.MethodPost, "/people", admin, luke)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = request(h, http.MethodPost, "/planets", admin,
		`{"name":"Tatooine","diameter":10465,"climate":"arid","gravity":"1 standard","terrain":"desert","surface_water":"1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"population":null`)

	rec = request(h, http.MethodPut, "/planets/1", admin,
		`{"name":"Tatooine","diameter":10465,"climate":"arid","gravity":"1 standard","terrain":"desert","surface_water":"1","population":"200000"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"population":"200000"`)

	rec = request(h, http.MethodPut, "/people/99", admin, luke)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// favorites
	rec = request(h, http.MethodPost, "/user/favorites/people", leia, `{"nature_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Luke Skywalker"`)

	rec = request(h, http.MethodPost, "/user/favorites/people", leia, `{"nature_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = request(h, http.MethodPost, "/user/favorites/planets", leia, `{"nature_id":1,"name":"home"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = request(h, http.MethodPost, "/user/favorites/planets", leia, `{"nature_id":404}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(h, http.MethodGet, "/user/favorites", leia, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var favs []favorite.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favs))
	assert.Len(t, favs, 2)

	rec = request(h, http.MethodGet, "/user/favorites", admin, "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	// deleting the person removes the dangling favorite
	rec = request(h, http.MethodDelete, "/people/1", admin, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = request(h, http.MethodGet, "/user/favorites/people", leia, "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = request(h, http.MethodGet, "/user/favorites/planets/1", leia, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"home"`)

	// deleting the user removes their favorites too
	rec = request(h, http.MethodDelete, "/user/2", admin, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// logout
	rec = request(h, http.MethodPost, "/logout", admin, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = request(h, http.MethodGet, "/people", admin, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSeedFlow(t *testing.T) {
	var swapi *httptest.Server
	swapi = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/planets":
			fmt.Fprintf(w, `{"message":"ok","results":[
				{"uid":"1","name":"Tatooine","url":"%[1]s/planets/1"},
				{"uid":"2","name":"Alderaan","url":"%[1]s/planets/2"},
				{"uid":"3","name":"Overlong","url":"%[1]s/planets/3"}]}`, swapi.URL)
		case strings.HasPrefix(r.URL.Path, "/planets/"):
			name := map[string]string{
				"/planets/1": "Tatooine",
				"/planets/2": "Alderaan",
				"/planets/3": strings.Repeat("x", 51),
			}[r.URL.Path]
			fmt.Fprintf(w, `{"message":"ok","result":{"properties":{"name":%q,"diameter":"12,500",
				"climate":"temperate","gravity":"1 standard","terrain":"grasslands","surface_water":"40",
				"population":"2000000000"}}}`, name)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer swapi.Close()

	h := newIntegrationAPI(t, swapi.URL)
	admin := login(t, h, "admin@starwars.dev", "rebellion")

	rec := request(h, http.MethodPost, "/population/planets", admin, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"resource":"planets","fetched":3,"created":2,"skipped":1,"failed":0}`, rec.Body.String())

	rec = request(h, http.MethodPost, "/population/planets", admin, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"resource":"planets","fetched":3,"created":0,"skipped":3,"failed":0}`, rec.Body.String())

	rec = request(h, http.MethodGet, "/planets/1", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"diameter":12500`)

	rec = request(h, http.MethodPost, "/population/people", admin, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func hanSolo() people.Person {
	return people.Person{
		Name: "Han Solo", Height: 180, Mass: 80, HairColor: "brown",
		SkinColor: "fair", EyeColor: "brown", BirthYear: "29BBY", Gender: "male",
	}
}

func TestRepositoriesRejectValuesOutsideColumns(t *testing.T) {
	db := databasetest.StartPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()

	peopleRepo := people.NewRepository(db, logger)
	planetRepo := planet.NewRepository(db, logger)
	userRepo := user.NewRepository(db, logger)

	longName := hanSolo()
	longName.Name = strings.Repeat("h", 51)
	_, err := peopleRepo.Create(ctx, longName, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation), "got %v", err)

	tooTall := hanSolo()
	tooTall.Height = 3000000000
	_, err = peopleRepo.Create(ctx, tooTall, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation), "got %v", err)

	_, err = planetRepo.Create(ctx, planet.Planet{
		Name: "Bespin", Diameter: 118000, Climate: strings.Repeat("c", 51),
		Gravity: "1.5", Terrain: "gas giant", SurfaceWater: "0",
	}, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation), "got %v", err)

	_, err = userRepo.Create(ctx, strings.Repeat("a", 120)+"@starwars.dev", "hash", nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation), "got %v", err)

	_, err = peopleRepo.GetByID(ctx, 3000000000, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound), "got %v", err)
}

func TestOutOfRangeValuesOverHTTP(t *testing.T) {
	h := newIntegrationAPI(t, "http://127.0.0.1:1")
	admin := login(t, h, "admin@starwars.dev", "rebellion")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"long person name", http.MethodPost, "/people", fmt.Sprintf(`{"name":%q,"height":1,"mass":1,"hair_color":"a","skin_color":"a","eye_color":"a","birth_year":"a","gender":"a"}`, strings.Repeat("n", 51))},
		{"height above int32", http.MethodPost, "/people", `{"name":"Chewbacca","height":3000000000,"mass":1,"hair_color":"a","skin_color":"a","eye_color":"a","birth_year":"a","gender":"a"}`},
		{"long email", http.MethodPost, "/user", fmt.Sprintf(`{"email":%q,"password":"pw"}`, strings.Repeat("e", 121))},
		{"nature_id above int32", http.MethodPost, "/user/favorites/people", `{"nature_id":3000000000}`},
		{"id above int32", http.MethodGet, "/people/3000000000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(h, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestFavoriteLocksReferencedRowUntilCommit(t *testing.T) {
	db := databasetest.StartPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()

	u, _, err := user.NewService(user.NewRepository(db, logger), db, logger).EnsureUser(ctx, "han@starwars.dev", "falcon")
	require.NoError(t, err)

	peopleRepo := people.NewRepository(db, logger)
	favoriteRepo := favorite.NewRepository(db, logger)

	han, err := peopleRepo.Create(ctx, hanSolo(), nil)
	require.NoError(t, err)

	tx, err := db.BeginTxContext(ctx)
	require.NoError(t, err)
	_, err = peopleRepo.LockByID(ctx, han.ID, tx)
	require.NoError(t, err)

	deleted := make(chan error, 1)
	go func() { deleted <- peopleRepo.Delete(ctx, han.ID, nil) }()

	select {
	case err := <-deleted:
		_ = tx.Rollback()
		t.Fatalf("delete finished while the row was locked: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	_, err = favoriteRepo.Create(ctx, favorite.Favorite{
		UserID: u.ID, Name: han.Name, Nature: favorite.NaturePeople, NatureID: han.ID,
	}, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	select {
	case err := <-deleted:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("delete did not complete after commit")
	}

	favorites, err := favoriteRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
