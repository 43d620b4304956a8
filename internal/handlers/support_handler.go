package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "investrack/internal/errors"
	"investrack/internal/models"
	"investrack/internal/services"
)

// SupportHandler handles support ticket requests.
type SupportHandler struct {
	supportService services.SupportServicer
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(supportService services.SupportServicer) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// CreateTicketRequest represents the payload for opening a support ticket.
type CreateTicketRequest struct {
	Subject     string `json:"subject" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"required,min=1"`
	Priority    string `json:"priority" binding:"omitempty,ticket_priority"`
	ProductName string `json:"product_name" binding:"max=100"`
}

// RespondTicketRequest represents the payload for replying to a ticket.
type RespondTicketRequest struct {
	Message   string `json:"message" binding:"required,min=1"`
	NewStatus string `json:"new_status" binding:"omitempty,ticket_status"`
}

// TicketFilterRequest represents the query parameters for ticket filtering.
type TicketFilterRequest struct {
	Priority string `form:"priority" binding:"omitempty,ticket_priority"`
	Status   string `form:"status" binding:"omitempty,ticket_status"`
}

func (r TicketFilterRequest) criteria() (*models.TicketPriority, *models.TicketStatus) {
	var priority *models.TicketPriority
	var status *models.TicketStatus
	if r.Priority != "" {
		if p, err := models.ParseTicketPriority(r.Priority); err == nil {
			priority = &p
		}
	}
	if r.Status != "" {
		if s, err := models.ParseTicketStatus(r.Status); err == nil {
			status = &s
		}
	}
	return priority, status
}

// CreateTicket handles opening a new support ticket.
// @Summary     Create support ticket
// @Description Open a new support ticket, optionally referencing a product by name
// @Tags        support
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTicketRequest true "Ticket details"
// @Success     201 {object} services.TicketView "Ticket created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /support/tickets [post]
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	email, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	ticket, err := h.supportService.CreateTicket(email, services.CreateTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		ProductName: req.ProductName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// GetMyTickets handles listing the user's tickets, optionally filtered.
// @Summary     Get my tickets
// @Description Get the authenticated user's support tickets, newest first
// @Tags        support
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       priority query string false "Priority filter (LOW, MEDIUM, HIGH)"
// @Param       status   query string false "Status filter (OPEN, RESPONDED, CLOSED)"
// @Success     200 {array} services.TicketView "Tickets"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /support/tickets [get]
func (h *SupportHandler) GetMyTickets(c *gin.Context) {
	email, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TicketFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	priority, status := req.criteria()
	var tickets []services.TicketView
	if priority == nil && status == nil {
		tickets, err = h.supportService.GetTicketsForUser(email)
	} else {
		tickets, err = h.supportService.FilterTicketsForUser(email, priority, status)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicket handles retrieving one ticket with its message thread.
// @Summary     Get ticket by ID
// @Description Get a support ticket with its messages in chronological order
// @Tags        support
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ticket ID"
// @Success     200 {object} services.TicketView "Ticket with messages"
// @Failure     400 {object} ErrorResponse "Invalid ticket ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the ticket owner"
// @Failure     404 {object} ErrorResponse "Ticket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /support/tickets/{id} [get]
func (h *SupportHandler) GetTicket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticketID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticket, err := h.supportService.GetTicketByID(ticketID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Non-admin users may only read their own tickets.
	if role, _ := c.Get("role"); role != string(models.RoleAdmin) && ticket.UserID != userID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// RespondToTicket handles replying to a ticket.
// @Summary     Reply to ticket
// @Description Append a message to a ticket's thread and optionally change its status
// @Tags        support
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Ticket ID"
// @Param       request body RespondTicketRequest true "Reply details"
// @Success     200 {object} services.TicketView "Updated ticket with messages"
// @Failure     400 {object} ErrorResponse "Invalid input, unknown status, or ticket closed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the ticket owner"
// @Failure     404 {object} ErrorResponse "Ticket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /support/tickets/{id}/respond [post]
func (h *SupportHandler) RespondToTicket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	email, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticketID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RespondTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	// Non-admin users may only reply to their own tickets.
	if role, _ := c.Get("role"); role != string(models.RoleAdmin) {
		existing, err := h.supportService.GetTicketByID(ticketID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if existing.UserID != userID {
			respondWithError(c, apperrors.ErrForbidden)
			return
		}
	}

	ticket, err := h.supportService.RespondToTicket(ticketID, email, req.Message, req.NewStatus)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GetAllTickets handles listing every ticket, optionally filtered. Admin only.
// @Summary     List all tickets (admin)
// @Description Get all support tickets across users, newest first
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       priority query string false "Priority filter (LOW, MEDIUM, HIGH)"
// @Param       status   query string false "Status filter (OPEN, RESPONDED, CLOSED)"
// @Success     200 {array} services.TicketView "Tickets"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/support/tickets [get]
func (h *SupportHandler) GetAllTickets(c *gin.Context) {
	var req TicketFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}

	priority, status := req.criteria()
	var (
		tickets []services.TicketView
		err     error
	)
	if priority == nil && status == nil {
		tickets, err = h.supportService.GetAllTickets()
	} else {
		tickets, err = h.supportService.FilterTickets(priority, status)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
