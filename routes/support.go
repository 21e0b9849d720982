package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

type CreateTicketInput struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"omitempty,oneof=booking payment listing account other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

func CreateTicket(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateTicketInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Category == "" {
		input.Category = "other"
	}
	if input.Priority == "" {
		input.Priority = "normal"
	}

	ticket := models.SupportTicket{
		RequesterID: userID,
		Subject:     input.Subject,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      models.TicketStatusOpen,
	}
	if err := storage.DB.Create(&ticket).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(ticket)
}

func GetMyTickets(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var tickets []models.SupportTicket
	if err := storage.DB.Where("requester_id = ?", userID).
		Order("created_at desc").Find(&tickets).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(tickets)
}

// ListTickets is the staff queue, gated by MANAGE_TICKETS.
func ListTickets(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.SupportTicket{})
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var tickets []models.SupportTicket
	if err := query.Preload("Requester").Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&tickets).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, tickets, page, perPage, total)
}

func GetTicket(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	ticketID := parseIDParam(ctx)

	var ticket models.SupportTicket
	if err := storage.DB.Preload("Replies.Author").Preload("Requester").
		First(&ticket, ticketID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Ticket not found", ctx)
		return
	}

	isStaff := services.NewAuthorizationService(storage.DB).
		HoldsGrant(userID, storage.PermManageTickets, models.AccessAdmin, models.AccessSupportStaff)
	if !isStaff && ticket.RequesterID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	ctx.JSON(ticket)
}

type TicketReplyInput struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func ReplyTicket(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	ticketID := parseIDParam(ctx)

	var ticket models.SupportTicket
	if err := storage.DB.First(&ticket, ticketID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Ticket not found", ctx)
		return
	}

	isStaff := services.NewAuthorizationService(storage.DB).
		HoldsGrant(userID, storage.PermManageTickets, models.AccessAdmin, models.AccessSupportStaff)
	if !isStaff && ticket.RequesterID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if ticket.Status == models.TicketStatusClosed {
		utils.CreateError(iris.StatusConflict, "Conflict", "ticket is closed", ctx)
		return
	}

	var input TicketReplyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reply := models.TicketReply{
		TicketID: ticketID,
		AuthorID: userID,
		Body:     input.Body,
		IsStaff:  isStaff,
	}
	if err := storage.DB.Create(&reply).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Staff replies move an open ticket to pending (waiting on requester)
	if isStaff && ticket.Status == models.TicketStatusOpen {
		storage.DB.Model(&ticket).Update("status", models.TicketStatusPending)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reply)
}

type UpdateTicketStatusInput struct {
	Status     string `json:"status" validate:"required,oneof=open pending resolved closed"`
	AssigneeID *uint  `json:"assigneeID"`
}

// UpdateTicketStatus is staff-only, gated by MANAGE_TICKETS.
func UpdateTicketStatus(ctx iris.Context) {
	ticketID := parseIDParam(ctx)

	var input UpdateTicketStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var ticket models.SupportTicket
	if err := storage.DB.First(&ticket, ticketID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Ticket not found", ctx)
		return
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.AssigneeID != nil {
		updates["assignee_id"] = *input.AssigneeID
	}
	if err := storage.DB.Model(&ticket).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.First(&ticket, ticketID)
	ctx.JSON(ticket)
}
