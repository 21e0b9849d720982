package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithProblem(statusCode, iris.NewProblem().Title(title).Detail(detail))
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "an internal server error occurred", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "resource not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "you are not allowed to perform this action", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "email already registered", ctx)
}

func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := make([]iris.Map, 0, len(errs))
		for _, validationErr := range errs {
			validationErrors = append(validationErrors, iris.Map{
				"field": validationErr.Field(),
				"tag":   validationErr.Tag(),
				"value": validationErr.Param(),
			})
		}
		ctx.StopWithProblem(iris.StatusBadRequest,
			iris.NewProblem().Title("Validation Error").Key("errors", validationErrors))
		return
	}
	CreateError(iris.StatusBadRequest, "Bad Request", "invalid request payload", ctx)
}

// HandleServiceError maps a typed service failure onto an HTTP status.
func HandleServiceError(err error, ctx iris.Context) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case services.KindValidation:
		CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case services.KindConflict:
		CreateError(iris.StatusConflict, "Conflict", err.Error(), ctx)
	case services.KindForbiddenTransition:
		CreateError(iris.StatusConflict, "Forbidden Transition", err.Error(), ctx)
	case services.KindForbidden:
		CreateError(iris.StatusForbidden, "Forbidden", err.Error(), ctx)
	case services.KindUnauthenticated:
		CreateError(iris.StatusUnauthorized, "Unauthenticated", err.Error(), ctx)
	default:
		CreateInternalServerError(ctx)
	}
}

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}
