package routes

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type UploadImageInput struct {
	Image string `json:"image" validate:"required"`
}

// UploadImage accepts a base64 image and returns the hosted URL.
func UploadImage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input UploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	publicID := fmt.Sprintf("listings/%d/%d", userID, time.Now().UnixNano())
	upload, err := storage.UploadBase64Image(input.Image, publicID)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upload Failed", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(upload)
}

type DeleteImageInput struct {
	URL string `json:"url" validate:"required,url"`
}

func DeleteUploadedImage(ctx iris.Context) {
	var input DeleteImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := storage.DeleteImage(input.URL); err != nil {
		utils.CreateError(iris.StatusBadGateway, "Delete Failed", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
