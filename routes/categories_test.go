package routes

import (
	"net/http"
	"testing"

	"feedback-board-server/models"
)

func TestCategoriesCRUD(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp(t)
	member := createTestUser(t, db, "Member", "member@example.com", "member")
	admin := createTestUser(t, db, "Admin", "admin@example.com", "admin")

	// Member may not create
	resp := doJSON(t, app, http.MethodPost, "/api/categories", signTestToken(t, member),
		map[string]interface{}{"name": "Bug"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", resp.Code)
	}

	// Admin creates; name is trimmed
	resp = doJSON(t, app, http.MethodPost, "/api/categories", signTestToken(t, admin),
		map[string]interface{}{"name": "  Bug  "})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created models.Category
	decodeBody(t, resp, &created)
	if created.Name != "Bug" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}

	// Duplicate name -> conflict
	resp = doJSON(t, app, http.MethodPost, "/api/categories", signTestToken(t, admin),
		map[string]interface{}{"name": "Bug"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", resp.Code)
	}

	// Whitespace-only name -> validation error
	resp = doJSON(t, app, http.MethodPost, "/api/categories", signTestToken(t, admin),
		map[string]interface{}{"name": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", resp.Code)
	}

	// Rename
	resp = doJSON(t, app, http.MethodPut, "/api/categories/"+uitoa(created.ID), signTestToken(t, admin),
		map[string]interface{}{"name": "Defect"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on rename, got %d: %s", resp.Code, resp.Body.String())
	}

	// Public listing, name ascending
	doJSON(t, app, http.MethodPost, "/api/categories", signTestToken(t, admin),
		map[string]interface{}{"name": "Accessibility"})
	resp = doJSON(t, app, http.MethodGet, "/api/categories", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed []models.Category
	decodeBody(t, resp, &listed)
	if len(listed) != 2 || listed[0].Name != "Accessibility" || listed[1].Name != "Defect" {
		t.Errorf("unexpected listing: %+v", listed)
	}

	// Delete
	resp = doJSON(t, app, http.MethodDelete, "/api/categories/"+uitoa(created.ID), signTestToken(t, admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}
	resp = doJSON(t, app, http.MethodDelete, "/api/categories/999", signTestToken(t, admin), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing category, got %d", resp.Code)
	}
}

// Deleting a category has no cascade: referencing feedback keeps its
// now-dangling category id.
func TestCategoryDeleteLeavesFeedback(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, db, "User", "user@example.com", "member")
	admin := createTestUser(t, db, "Admin", "admin@example.com", "admin")
	category := createTestCategory(t, db, "Doomed")
	feedback := createTestFeedback(t, db, user, category, "Still here", 3)

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/"+uitoa(category.ID), signTestToken(t, admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var stored models.Feedback
	if err := db.First(&stored, feedback.ID).Error; err != nil {
		t.Fatalf("feedback should survive category deletion: %v", err)
	}
	if stored.CategoryID != category.ID {
		t.Errorf("category reference changed: %d", stored.CategoryID)
	}
}
