package routes

import (
	"encoding/json"
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type CreatePropertyInput struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description"`
	ListingType  string   `json:"listingType" validate:"required,oneof=FOR_RENT FOR_SALE"`
	AddressLine1 string   `json:"addressLine1" validate:"required"`
	AddressLine2 string   `json:"addressLine2"`
	City         string   `json:"city" validate:"required"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	Country      string   `json:"country" validate:"required"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float32  `json:"bathrooms"`
	AreaSqm      float64  `json:"areaSqm"`
	MonthlyRent  float32  `json:"monthlyRent"`
	Deposit      float32  `json:"depositAmount"`
	SalePrice    float64  `json:"salePrice"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
}

func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities, _ := json.Marshal(input.Amenities)
	images, _ := json.Marshal(input.Images)

	property := models.Property{
		OwnerID:       userID,
		Title:         input.Title,
		Description:   input.Description,
		ListingType:   input.ListingType,
		AddressLine1:  input.AddressLine1,
		AddressLine2:  input.AddressLine2,
		City:          input.City,
		State:         input.State,
		Zip:           input.Zip,
		Country:       input.Country,
		Lat:           input.Lat,
		Lng:           input.Lng,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		AreaSqm:       input.AreaSqm,
		MonthlyRent:   input.MonthlyRent,
		DepositAmount: input.Deposit,
		SalePrice:     input.SalePrice,
		Currency:      input.Currency,
		Amenities:     string(amenities),
		Images:        string(images),
		Status:        models.PropertyStatusPending,
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.Preload("Owner").First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	ctx.JSON(property)
}

// SearchProperties lists published, approved listings with filters and
// skip/take pagination.
func SearchProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Property{}).
		Where("is_published = ? AND status = ?", true, models.PropertyStatusApproved)

	if listingType := ctx.URLParam("listing_type"); listingType != "" {
		query = query.Where("listing_type = ?", listingType)
	}
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("lower(city) = lower(?)", city)
	}
	if bedrooms := ctx.URLParamIntDefault("min_bedrooms", 0); bedrooms > 0 {
		query = query.Where("bedrooms >= ?", bedrooms)
	}
	if maxRent := ctx.URLParamFloat64Default("max_rent", 0); maxRent > 0 {
		query = query.Where("monthly_rent <= ?", maxRent)
	}
	if maxPrice := ctx.URLParamFloat64Default("max_price", 0); maxPrice > 0 {
		query = query.Where("sale_price <= ?", maxPrice)
	}

	sortField := ctx.URLParamDefault("sort", "created_at")
	switch sortField {
	case "created_at", "monthly_rent", "sale_price", "bedrooms":
	default:
		sortField = "created_at"
	}
	direction := "desc"
	if ctx.URLParamDefault("dir", "desc") == "asc" {
		direction = "asc"
	}

	var total int64
	query.Count(&total)

	var properties []models.Property
	if err := query.Order(sortField + " " + direction).
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func GetMyProperties(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var properties []models.Property
	if err := storage.DB.Where("owner_id = ?", userID).Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

type UpdatePropertyInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	MonthlyRent *float32 `json:"monthlyRent"`
	Deposit     *float32 `json:"depositAmount"`
	SalePrice   *float64 `json:"salePrice"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	IsPublished *bool    `json:"isPublished"`
}

func UpdateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}
	if property.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.MonthlyRent != nil {
		updates["monthly_rent"] = *input.MonthlyRent
	}
	if input.Deposit != nil {
		updates["deposit_amount"] = *input.Deposit
	}
	if input.SalePrice != nil {
		updates["sale_price"] = *input.SalePrice
	}
	if input.Amenities != nil {
		amenities, _ := json.Marshal(input.Amenities)
		updates["amenities"] = string(amenities)
	}
	if input.Images != nil {
		images, _ := json.Marshal(input.Images)
		updates["images"] = string(images)
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(&property).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	storage.DB.First(&property, property.ID)
	ctx.JSON(property)
}

func DeleteProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}
	if property.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	// Remove hosted images best-effort before the row goes away
	if property.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(property.Images), &images); err == nil {
			for _, imageURL := range images {
				go storage.DeleteImage(imageURL)
			}
		}
	}

	if err := storage.DB.Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func parseIDParam(ctx iris.Context) uint {
	id, _ := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	return uint(id)
}
