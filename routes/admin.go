package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

// AdminListUsers returns users with pagination, gated by MANAGE_USERS.
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.User{})
	if q := ctx.URLParam("q"); q != "" {
		search := "%" + q + "%"
		query = query.Where(
			"lower(first_name) LIKE lower(?) OR lower(last_name) LIKE lower(?) OR lower(email) LIKE lower(?)",
			search, search, search)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Preload("Role").Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

type SetUserActiveInput struct {
	IsActive bool `json:"isActive"`
}

func AdminSetUserActive(ctx iris.Context) {
	userID := parseIDParam(ctx)

	var input SetUserActiveInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User not found", ctx)
		return
	}

	before := user
	if err := storage.DB.Model(&user).Update("is_active", input.IsActive).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user_set_active", "user", userID, before, input)
	ctx.StatusCode(iris.StatusNoContent)
}

type AssignRoleInput struct {
	RoleID uint `json:"roleID" validate:"required"`
}

func AdminAssignRole(ctx iris.Context) {
	userID := parseIDParam(ctx)

	var input AssignRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var role models.Role
	if err := storage.DB.First(&role, input.RoleID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Role not found", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User not found", ctx)
		return
	}

	before := user.RoleID
	if err := storage.DB.Model(&user).Update("role_id", role.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user_assign_role", "user", userID, iris.Map{"roleID": before}, iris.Map{"roleID": role.ID})
	ctx.JSON(iris.Map{"message": "role assigned", "roleID": role.ID})
}

func AdminListRoles(ctx iris.Context) {
	var roles []models.Role
	if err := storage.DB.Preload("Permissions.Permission").Find(&roles).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(roles)
}

type CreateRoleInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=255"`
}

func AdminCreateRole(ctx iris.Context) {
	var input CreateRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing int64
	storage.DB.Model(&models.Role{}).Where("name = ?", input.Name).Count(&existing)
	if existing > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "role name already exists", ctx)
		return
	}

	role := models.Role{
		Name:         input.Name,
		Description:  input.Description,
		IsSuperAdmin: input.Name == models.SuperAdminRoleName,
	}
	if err := storage.DB.Create(&role).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "role_create", "role", role.ID, nil, role)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(role)
}

type GrantPermissionInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Access string `json:"access" validate:"required,oneof=ALL ADMIN USER SELLER BUYER SUPPORT_STAFF"`
}

// AdminGrantPermission grants a (name, access) permission to a role,
// creating the permission row on first use. Duplicate links conflict.
func AdminGrantPermission(ctx iris.Context) {
	roleID := parseIDParam(ctx)

	var input GrantPermissionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var role models.Role
	if err := storage.DB.First(&role, roleID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Role not found", ctx)
		return
	}

	var permission models.Permission
	if err := storage.DB.Where(models.Permission{Name: input.Name, Access: input.Access}).
		FirstOrCreate(&permission).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var linked int64
	storage.DB.Model(&models.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).Count(&linked)
	if linked > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "role already holds this permission", ctx)
		return
	}

	link := models.RolePermission{RoleID: role.ID, PermissionID: permission.ID}
	if err := storage.DB.Create(&link).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "role_grant_permission", "role", role.ID, nil, input)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(link)
}

type ModeratePropertyInput struct {
	Status      string `json:"status" validate:"required,oneof=approved rejected"`
	ReviewNotes string `json:"reviewNotes" validate:"max=1000"`
	Flag        *bool  `json:"flag"`
	FlagReason  string `json:"flagReason" validate:"max=500"`
}

// AdminModerateProperty approves/rejects a listing, gated by MODERATE_LISTINGS.
func AdminModerateProperty(ctx iris.Context) {
	propertyID := parseIDParam(ctx)

	var input ModeratePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	before := property
	updates := map[string]interface{}{
		"status":       input.Status,
		"review_notes": input.ReviewNotes,
		"is_published": input.Status == models.PropertyStatusApproved,
	}
	if input.Flag != nil {
		updates["is_flagged"] = *input.Flag
		updates["flag_reason"] = input.FlagReason
	}

	if err := storage.DB.Model(&property).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property_moderate", "property", propertyID, before, updates)

	storage.DB.First(&property, propertyID)
	ctx.JSON(property)
}

// AdminStats is the dashboard counters endpoint.
func AdminStats(ctx iris.Context) {
	var userCount, propertyCount, bookingCount, purchaseCount, openTickets, pendingKYC int64

	storage.DB.Model(&models.User{}).Count(&userCount)
	storage.DB.Model(&models.Property{}).Count(&propertyCount)
	storage.DB.Model(&models.Booking{}).Count(&bookingCount)
	storage.DB.Model(&models.Purchase{}).Count(&purchaseCount)
	storage.DB.Model(&models.SupportTicket{}).Where("status IN ?", []string{models.TicketStatusOpen, models.TicketStatusPending}).Count(&openTickets)
	storage.DB.Model(&models.IdentityVerification{}).Where("status = ?", "pending").Count(&pendingKYC)

	ctx.JSON(iris.Map{
		"users":       userCount,
		"properties":  propertyCount,
		"bookings":    bookingCount,
		"purchases":   purchaseCount,
		"openTickets": openTickets,
		"pendingKYC":  pendingKYC,
	})
}
