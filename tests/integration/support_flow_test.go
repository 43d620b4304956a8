package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestSupportFlow_TicketLifecycle(t *testing.T) {
	app := setupApp(t)
	userToken, _, _ := app.registerUser(t, "customer@test.com", "password123")
	adminToken := app.registerAdmin(t, "support-admin@test.com", "password123")
	app.seedProduct(t, newFundProduct("Blue Chip Fund", 100))

	// Step 1: user opens a ticket referencing a product by partial name
	rec := app.request("POST", "/api/v1/support/tickets",
		`{"subject":"NAV discrepancy","description":"Value looks stale","priority":"HIGH","product_name":"blue chip"}`,
		userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating ticket, got %d: %s", rec.Code, rec.Body.String())
	}
	ticket := parseJSON(t, rec)["ticket"].(map[string]interface{})
	ticketID := ticket["id"].(float64)
	if ticket["status"] != "OPEN" {
		t.Errorf("expected OPEN status, got %v", ticket["status"])
	}
	if ticket["priority"] != "HIGH" {
		t.Errorf("expected HIGH priority, got %v", ticket["priority"])
	}
	if ticket["product_name"] != "Blue Chip Fund" {
		t.Errorf("expected product resolved to Blue Chip Fund, got %v", ticket["product_name"])
	}

	// Step 2: admin sees the ticket in the global list
	rec = app.request("GET", "/api/v1/admin/support/tickets", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin list, got %d: %s", rec.Code, rec.Body.String())
	}
	tickets := parseJSON(t, rec)["tickets"].([]interface{})
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket in admin list, got %d", len(tickets))
	}

	// A regular user cannot reach the admin list.
	rec = app.request("GET", "/api/v1/admin/support/tickets", "", userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	// Step 3: admin responds and marks the ticket RESPONDED
	rec = app.request("POST", fmt.Sprintf("/api/v1/support/tickets/%.0f/respond", ticketID),
		`{"message":"We are looking into it","new_status":"RESPONDED"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin reply, got %d: %s", rec.Code, rec.Body.String())
	}
	ticket = parseJSON(t, rec)["ticket"].(map[string]interface{})
	if ticket["status"] != "RESPONDED" {
		t.Errorf("expected RESPONDED, got %v", ticket["status"])
	}

	// Step 4: user replies without changing status
	rec = app.request("POST", fmt.Sprintf("/api/v1/support/tickets/%.0f/respond", ticketID),
		`{"message":"Thanks, still seeing it"}`, userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for user reply, got %d: %s", rec.Code, rec.Body.String())
	}
	ticket = parseJSON(t, rec)["ticket"].(map[string]interface{})
	if ticket["status"] != "RESPONDED" {
		t.Errorf("expected status unchanged, got %v", ticket["status"])
	}
	messages := ticket["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages in thread, got %d", len(messages))
	}
	first := messages[0].(map[string]interface{})
	if first["sender_type"] != "ADMIN" {
		t.Errorf("expected first message from ADMIN, got %v", first["sender_type"])
	}

	// Step 5: admin closes the ticket
	rec = app.request("POST", fmt.Sprintf("/api/v1/support/tickets/%.0f/respond", ticketID),
		`{"message":"Fixed in tonight's pricing run","new_status":"CLOSED"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 closing ticket, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 6: no more replies once closed
	rec = app.request("POST", fmt.Sprintf("/api/v1/support/tickets/%.0f/respond", ticketID),
		`{"message":"One more thing"}`, userToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 replying to closed ticket, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSupportFlow_OwnershipAndFilters(t *testing.T) {
	app := setupApp(t)
	tokenA, _, _ := app.registerUser(t, "owner@test.com", "password123")
	tokenB, _, _ := app.registerUser(t, "stranger@test.com", "password123")
	adminToken := app.registerAdmin(t, "filter-admin@test.com", "password123")

	rec := app.request("POST", "/api/v1/support/tickets",
		`{"subject":"Login issue","description":"Cannot sign in on mobile"}`, tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	ticket := parseJSON(t, rec)["ticket"].(map[string]interface{})
	ticketID := ticket["id"].(float64)
	if ticket["priority"] != "MEDIUM" {
		t.Errorf("expected default MEDIUM priority, got %v", ticket["priority"])
	}

	rec = app.request("POST", "/api/v1/support/tickets",
		`{"subject":"Fee question","description":"What is the expense ratio?","priority":"LOW"}`, tokenB)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// Each user only sees their own tickets.
	rec = app.request("GET", "/api/v1/support/tickets", "", tokenA)
	tickets := parseJSON(t, rec)["tickets"].([]interface{})
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket for user A, got %d", len(tickets))
	}

	// A stranger cannot read or reply to someone else's ticket.
	rec = app.request("GET", fmt.Sprintf("/api/v1/support/tickets/%.0f", ticketID), "", tokenB)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 reading foreign ticket, got %d", rec.Code)
	}
	rec = app.request("POST", fmt.Sprintf("/api/v1/support/tickets/%.0f/respond", ticketID),
		`{"message":"let me in"}`, tokenB)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 replying to foreign ticket, got %d", rec.Code)
	}

	// The admin can read any ticket.
	rec = app.request("GET", fmt.Sprintf("/api/v1/support/tickets/%.0f", ticketID), "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin read, got %d", rec.Code)
	}

	// Admin filter by priority.
	rec = app.request("GET", "/api/v1/admin/support/tickets?priority=LOW", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for filtered list, got %d: %s", rec.Code, rec.Body.String())
	}
	tickets = parseJSON(t, rec)["tickets"].([]interface{})
	if len(tickets) != 1 {
		t.Fatalf("expected 1 LOW ticket, got %d", len(tickets))
	}

	// User filter by status.
	rec = app.request("GET", "/api/v1/support/tickets?status=OPEN", "", tokenA)
	tickets = parseJSON(t, rec)["tickets"].([]interface{})
	if len(tickets) != 1 {
		t.Fatalf("expected 1 OPEN ticket for user A, got %d", len(tickets))
	}
}
