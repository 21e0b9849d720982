package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
)

type mockAccessToken struct {
	ID   uint
	Role string
}

// heldByRole stands in for the seeded role -> permission links so the
// guard can be exercised without a database.
var heldByRole = map[string][]services.HeldPermission{
	"SELLER": {
		{Name: "LIST_PROPERTY", Access: "SELLER"},
	},
	"BUYER": {
		{Name: "BOOK_PROPERTY", Access: "BUYER"},
		{Name: "MAKE_OFFER", Access: "BUYER"},
	},
	"SUPER_ADMIN": {
		{Name: "MANAGE_USERS", Access: "SUPER_ADMIN", Wildcard: true},
		{Name: "LIST_PROPERTY", Access: "SUPER_ADMIN", Wildcard: true},
	},
}

func mockRequirePermissions(required ...services.RequiredPermission) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*mockAccessToken)
		held := heldByRole[claims.Role]
		if missing := services.MissingPermissions(held, required); len(missing) > 0 {
			ctx.StatusCode(iris.StatusForbidden)
			return
		}
		ctx.Next()
	}
}

func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(mockAccessToken) })

	listGuard := mockRequirePermissions(services.RequiredPermission{
		Name:   "LIST_PROPERTY",
		Access: []string{"SELLER", "ADMIN"},
	})
	usersGuard := mockRequirePermissions(services.RequiredPermission{
		Name:   "MANAGE_USERS",
		Access: []string{"ADMIN"},
	})

	ok := func(ctx iris.Context) { ctx.JSON(iris.Map{"status": "ok"}) }

	app.Post("/api/property", accessTokenVerifierMiddleware, listGuard, ok)
	app.Get("/api/admin/users", accessTokenVerifierMiddleware, usersGuard, ok)
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(mockAccessToken{ID: 1, Role: role})
	return string(token)
}

func doRequest(app *iris.Application, method, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+signTestToken(role))
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestGuardRejectsMissingToken(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(app, http.MethodGet, "/api/admin/users", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestGuardForbidsWrongRole(t *testing.T) {
	app := buildTestApp()

	// A buyer holds no listing permission.
	resp := doRequest(app, http.MethodPost, "/api/property", "BUYER")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer creating a listing, got %d", resp.Code)
	}

	// A seller holds no user management permission.
	resp = doRequest(app, http.MethodGet, "/api/admin/users", "SELLER")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller on admin route, got %d", resp.Code)
	}
}

func TestGuardAllowsGrantedRole(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(app, http.MethodPost, "/api/property", "SELLER")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for seller creating a listing, got %d", resp.Code)
	}
}

func TestGuardWildcardSatisfiesAnyAccess(t *testing.T) {
	app := buildTestApp()

	// Super admin grants are wildcard and pass access lists they are
	// not literally members of.
	resp := doRequest(app, http.MethodGet, "/api/admin/users", "SUPER_ADMIN")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super admin, got %d", resp.Code)
	}
	resp = doRequest(app, http.MethodPost, "/api/property", "SUPER_ADMIN")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super admin on listing route, got %d", resp.Code)
	}
}
