package utils

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
)

func UserIDMiddleware(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	claims := jwt.Get(ctx).(*AccessToken)

	userID := strconv.FormatUint(uint64(claims.ID), 10)

	if userID != id {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	ctx.Next()
}

// UserIDFromTokenMiddleware extracts user ID from JWT token and stores it in context
// Use this for routes that don't have {id} parameter in URL
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}

// RequirePermissions gates a route on the authorization evaluator. The
// evaluator walks the caller's role -> permission-link graph against the
// declared requirements; a user whose record vanished gets 401, a user
// lacking a grant gets 403 with the missing permissions named.
func RequirePermissions(required ...services.RequiredPermission) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)

		authz := services.NewAuthorizationService(storage.DB)
		if err := authz.Evaluate(claims.ID, required); err != nil {
			switch services.KindOf(err) {
			case services.KindNotFound:
				CreateError(iris.StatusUnauthorized, "Unauthenticated", "account no longer exists", ctx)
			default:
				CreateError(iris.StatusForbidden, "Forbidden", err.Error(), ctx)
			}
			return
		}

		ctx.Values().Set("userID", claims.ID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// AnyAccess is shorthand for a permission entry that accepts every
// access level defined in the catalogue.
func AnyAccess(name string) services.RequiredPermission {
	return services.RequiredPermission{
		Name: name,
		Access: []string{
			"ALL", "ADMIN", "USER", "SELLER", "BUYER", "SUPPORT_STAFF",
		},
	}
}
