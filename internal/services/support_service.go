package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "investrack/internal/errors"
	"investrack/internal/logger"
	"investrack/internal/models"
)

// supportService implements the support ticket engine: ticket lifecycle,
// threaded messages, and priority/status filtering.
type supportService struct {
	db *gorm.DB
}

// NewSupportService creates a new SupportServicer.
func NewSupportService(db *gorm.DB) SupportServicer {
	return &supportService{db: db}
}

// CreateTicket opens a new ticket for the user identified by email. The user
// lookup and the optional product-name lookup run concurrently; a failure in
// either aborts the creation. A product hint that matches nothing resolves
// to no product rather than an error.
func (s *supportService) CreateTicket(email string, input CreateTicketInput) (*TicketView, error) {
	priority := models.PriorityMedium
	if input.Priority != "" {
		p, err := models.ParseTicketPriority(input.Priority)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		priority = p
	}

	var (
		user    *models.User
		product *models.InvestmentProduct
		g       errgroup.Group
	)
	g.Go(func() error {
		u, err := s.fetchUserByEmail(email)
		user = u
		return err
	})
	g.Go(func() error {
		if strings.TrimSpace(input.ProductName) == "" {
			return nil
		}
		p, err := s.findActiveProductByName(input.ProductName)
		product = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ticket := &models.SupportTicket{
		UserID:      user.ID,
		Subject:     input.Subject,
		Description: input.Description,
		Status:      models.TicketOpen,
		Priority:    priority,
	}
	if product != nil {
		ticket.ProductID = &product.ID
		ticket.Product = product
	}

	if err := s.db.Create(ticket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("support ticket created", "ticket_id", ticket.ID, "user_id", user.ID)
	view := mapTicketView(ticket)
	return &view, nil
}

// RespondToTicket appends a message to the ticket thread, optionally moves
// the ticket to a new status, and returns the ticket with its messages in
// timestamp order. Closed tickets reject any reply.
func (s *supportService) RespondToTicket(ticketID uint, email, message, newStatus string) (*TicketView, error) {
	user, err := s.fetchUserByEmail(email)
	if err != nil {
		return nil, err
	}

	ticket, err := s.fetchTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketClosed {
		return nil, apperrors.ErrTicketClosed
	}

	// Parse the target status before touching any state so an unknown
	// string cannot leave a message behind.
	var target *models.TicketStatus
	if newStatus != "" {
		st, parseErr := models.ParseTicketStatus(newStatus)
		if parseErr != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidTicketStatus, parseErr.Error())
		}
		target = &st
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		msg := &models.TicketMessage{
			TicketID:   ticket.ID,
			SenderID:   user.ID,
			Message:    message,
			SenderType: user.Role,
			Timestamp:  now,
		}
		if txErr := tx.Create(msg).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		updates := map[string]interface{}{"updated_at": now}
		if target != nil {
			updates["status"] = *target
		}
		if txErr := tx.Model(ticket).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target != nil {
		ticket.Status = *target
	}
	ticket.UpdatedAt = now

	messages, err := s.messagesForTicket(ticket.ID)
	if err != nil {
		return nil, err
	}
	view := mapTicketView(ticket)
	view.Messages = messages
	return &view, nil
}

// GetTicketsForUser returns the user's tickets, newest first.
func (s *supportService) GetTicketsForUser(email string) ([]TicketView, error) {
	user, err := s.fetchUserByEmail(email)
	if err != nil {
		return nil, err
	}
	return s.queryTickets(s.db.Where("user_id = ?", user.ID))
}

// GetAllTickets returns every ticket in the system, newest first.
func (s *supportService) GetAllTickets() ([]TicketView, error) {
	return s.queryTickets(s.db)
}

// FilterTickets returns all tickets matching the optional priority and
// status criteria, newest first.
func (s *supportService) FilterTickets(priority *models.TicketPriority, status *models.TicketStatus) ([]TicketView, error) {
	return s.queryTickets(applyTicketFilters(s.db, priority, status))
}

// FilterTicketsForUser is FilterTickets scoped to one user's tickets.
func (s *supportService) FilterTicketsForUser(email string, priority *models.TicketPriority, status *models.TicketStatus) ([]TicketView, error) {
	user, err := s.fetchUserByEmail(email)
	if err != nil {
		return nil, err
	}
	query := applyTicketFilters(s.db.Where("user_id = ?", user.ID), priority, status)
	return s.queryTickets(query)
}

// GetTicketByID returns one ticket with its full message thread.
func (s *supportService) GetTicketByID(ticketID uint) (*TicketView, error) {
	ticket, err := s.fetchTicket(ticketID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messagesForTicket(ticket.ID)
	if err != nil {
		return nil, err
	}
	view := mapTicketView(ticket)
	view.Messages = messages
	return &view, nil
}

func (s *supportService) fetchUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrUserNotFound, "User not found with email: "+email)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// findActiveProductByName resolves a product hint via case-insensitive
// partial match against active products, taking the first match by id.
// No match resolves to nil.
func (s *supportService) findActiveProductByName(name string) (*models.InvestmentProduct, error) {
	var product models.InvestmentProduct
	err := s.db.Where("LOWER(name) LIKE ? AND is_active = ?", "%"+strings.ToLower(strings.TrimSpace(name))+"%", true).
		Order("id").First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

func (s *supportService) fetchTicket(ticketID uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := s.db.Preload("Product").First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ticket, nil
}

func (s *supportService) messagesForTicket(ticketID uint) ([]TicketMessageView, error) {
	var messages []models.TicketMessage
	if err := s.db.Where("ticket_id = ?", ticketID).Order("timestamp ASC").Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TicketMessageView, 0, len(messages))
	for i := range messages {
		views = append(views, TicketMessageView{
			ID:         messages[i].ID,
			SenderID:   messages[i].SenderID,
			Message:    messages[i].Message,
			SenderType: string(messages[i].SenderType),
			Timestamp:  messages[i].Timestamp,
		})
	}
	return views, nil
}

func (s *supportService) queryTickets(query *gorm.DB) ([]TicketView, error) {
	var tickets []models.SupportTicket
	if err := query.Preload("Product").Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, mapTicketView(&tickets[i]))
	}
	return views, nil
}

func applyTicketFilters(query *gorm.DB, priority *models.TicketPriority, status *models.TicketStatus) *gorm.DB {
	if priority != nil {
		query = query.Where("priority = ?", *priority)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}

func mapTicketView(ticket *models.SupportTicket) TicketView {
	view := TicketView{
		ID:          ticket.ID,
		UserID:      ticket.UserID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Messages:    []TicketMessageView{},
	}
	if ticket.Product != nil {
		view.ProductName = ticket.Product.Name
	}
	return view
}
