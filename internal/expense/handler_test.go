package expense

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/category"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

const (
	ownExpenseID     = "e0000000-0000-4000-8000-000000000001"
	foreignExpenseID = "e0000000-0000-4000-8000-000000000002"
	childExpenseID   = "e0000000-0000-4000-8000-000000000003"
	missingExpenseID = "e0000000-0000-4000-8000-00000000dead"
	ownCategoryID    = "c0000000-0000-4000-8000-000000000001"
)

type stubStore struct {
	expenses map[string]Expense
	nextID   int
}

func newStubStore() *stubStore {
	return &stubStore{expenses: map[string]Expense{}, nextID: 1}
}

func (s *stubStore) put(e Expense) {
	s.expenses[e.ID] = e
}

func (s *stubStore) Insert(_ context.Context, userID string, req CreateExpenseRequest) (Expense, error) {
	e := Expense{
		ID:         "e0000000-0000-4000-8000-00000000100" + string(rune('0'+s.nextID)),
		UserID:     userID,
		Title:      req.Title,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
		CreatedAt:  time.Now(),
	}
	s.nextID++
	s.put(e)
	return e, nil
}

func (s *stubStore) InsertSubExpenses(_ context.Context, userID, parentID string, subs []SubExpenseInput) ([]Expense, error) {
	out := make([]Expense, 0, len(subs))
	for i, sub := range subs {
		e := Expense{
			ID:       "e0000000-0000-4000-8000-00000000200" + string(rune('0'+i)),
			UserID:   userID,
			Title:    sub.Title,
			Amount:   sub.Amount,
			ParentID: &parentID,
		}
		s.put(e)
		out = append(out, e)
	}
	return out, nil
}

func (s *stubStore) List(_ context.Context, q ListQuery) ([]Expense, int64, error) {
	out := make([]Expense, 0)
	for _, e := range s.expenses {
		if e.UserID == q.UserID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubStore) ListChildren(_ context.Context, parentID string) ([]Expense, error) {
	out := make([]Expense, 0)
	for _, e := range s.expenses {
		if e.ParentID != nil && *e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubStore) GetByID(_ context.Context, id string) (Expense, bool, error) {
	e, ok := s.expenses[id]
	return e, ok, nil
}

func (s *stubStore) Update(_ context.Context, id string, req UpdateExpenseRequest) (Expense, error) {
	e := s.expenses[id]
	e.Title = req.Title
	e.Amount = req.Amount
	e.CategoryID = req.CategoryID
	s.put(e)
	return e, nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	delete(s.expenses, id)
	return nil
}

type stubCategories struct {
	categories map[string]category.Category
}

func (s *stubCategories) GetByID(_ context.Context, id string) (category.Category, bool, error) {
	cat, ok := s.categories[id]
	return cat, ok, nil
}

func seedStore() *stubStore {
	store := newStubStore()
	store.put(Expense{ID: ownExpenseID, UserID: "user-1", Title: "Groceries", Amount: decimal.RequireFromString("100")})
	store.put(Expense{ID: foreignExpenseID, UserID: "someone-else", Title: "Theirs", Amount: decimal.RequireFromString("40")})
	parent := ownExpenseID
	store.put(Expense{ID: childExpenseID, UserID: "user-1", Title: "Milk", Amount: decimal.RequireFromString("20"), ParentID: &parent})
	return store
}

func newTestApp(store Store) (*fiber.App, string) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	token, _ := tokens.Issue(auth.Identity{ID: "user-1", Username: "alice", Email: "alice@example.com"})

	cats := &stubCategories{categories: map[string]category.Category{
		ownCategoryID: {ID: ownCategoryID, UserID: "user-1", Name: "Food"},
	}}

	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	h := NewHandler(store, cats, NewAnalytics(nil))
	mw := auth.Middleware(tokens)
	app.Post("/api/expense/create", mw, h.Create)
	app.Post("/api/expense/create-sub-expenses", mw, h.CreateSubExpenses)
	app.Get("/api/expense/get-all", mw, h.GetAll)
	app.Get("/api/expense/sub-expenses/:id", mw, h.SubExpenses)
	app.Put("/api/expense/update/:id", mw, h.Update)
	app.Delete("/api/expense/delete/:id", mw, h.Delete)

	return app, token
}

func request(t *testing.T, app *fiber.App, method, target, token, body string) int {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(r)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

func TestCreateExpense(t *testing.T) {
	app, token := newTestApp(newStubStore())

	status := request(t, app, "POST", "/api/expense/create", token,
		`{"title":"Coffee","amount":"4.50","categoryId":"`+ownCategoryID+`"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
}

func TestCreateExpenseRejectsForeignCategory(t *testing.T) {
	app, token := newTestApp(newStubStore())

	status := request(t, app, "POST", "/api/expense/create", token,
		`{"title":"Coffee","amount":"4.50","categoryId":"c0000000-0000-4000-8000-00000000dead"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("unknown category status = %d, want 400", status)
	}
}

func TestCreateSubExpensesParentValidation(t *testing.T) {
	store := seedStore()
	app, token := newTestApp(store)

	subs := `"subExpenses":[{"title":"Bread","amount":"10"}]`

	// Missing parent id.
	status := request(t, app, "POST", "/api/expense/create-sub-expenses", token, `{`+subs+`}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("missing parentId status = %d, want 400", status)
	}

	// Unknown parent.
	status = request(t, app, "POST", "/api/expense/create-sub-expenses", token,
		`{"parentId":"`+missingExpenseID+`",`+subs+`}`)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown parent status = %d, want 404", status)
	}

	// Someone else's parent.
	status = request(t, app, "POST", "/api/expense/create-sub-expenses", token,
		`{"parentId":"`+foreignExpenseID+`",`+subs+`}`)
	if status != fiber.StatusForbidden {
		t.Errorf("foreign parent status = %d, want 403", status)
	}

	// A sub-expense cannot itself be a parent.
	status = request(t, app, "POST", "/api/expense/create-sub-expenses", token,
		`{"parentId":"`+childExpenseID+`",`+subs+`}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("nested parent status = %d, want 400", status)
	}

	// A valid top-level parent.
	status = request(t, app, "POST", "/api/expense/create-sub-expenses", token,
		`{"parentId":"`+ownExpenseID+`",`+subs+`}`)
	if status != fiber.StatusCreated {
		t.Errorf("valid parent status = %d, want 201", status)
	}
}

func TestUpdateExpenseOwnership(t *testing.T) {
	app, token := newTestApp(seedStore())
	body := `{"title":"Changed","amount":"12"}`

	status := request(t, app, "PUT", "/api/expense/update/"+foreignExpenseID, token, body)
	if status != fiber.StatusForbidden {
		t.Errorf("foreign expense status = %d, want 403", status)
	}

	status = request(t, app, "PUT", "/api/expense/update/"+missingExpenseID, token, body)
	if status != fiber.StatusNotFound {
		t.Errorf("missing expense status = %d, want 404", status)
	}

	status = request(t, app, "PUT", "/api/expense/update/not-a-uuid", token, body)
	if status != fiber.StatusNotFound {
		t.Errorf("malformed id status = %d, want 404", status)
	}

	status = request(t, app, "PUT", "/api/expense/update/"+ownExpenseID, token, body)
	if status != fiber.StatusOK {
		t.Errorf("owned expense status = %d, want 200", status)
	}
}

func TestDeleteExpenseOwnership(t *testing.T) {
	store := seedStore()
	app, token := newTestApp(store)

	status := request(t, app, "DELETE", "/api/expense/delete/"+foreignExpenseID, token, "")
	if status != fiber.StatusForbidden {
		t.Errorf("foreign expense status = %d, want 403", status)
	}
	if _, ok := store.expenses[foreignExpenseID]; !ok {
		t.Error("foreign expense was deleted")
	}

	status = request(t, app, "DELETE", "/api/expense/delete/"+ownExpenseID, token, "")
	if status != fiber.StatusOK {
		t.Errorf("owned expense status = %d, want 200", status)
	}
	if _, ok := store.expenses[ownExpenseID]; ok {
		t.Error("owned expense still present after delete")
	}
}

func TestSubExpensesListing(t *testing.T) {
	app, token := newTestApp(seedStore())

	r := httptest.NewRequest("GET", "/api/expense/sub-expenses/"+ownExpenseID, nil)
	r.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(r)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var env struct {
		Data []Expense `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != childExpenseID {
		t.Errorf("data = %+v, want the single child expense", env.Data)
	}

	status := request(t, app, "GET", "/api/expense/sub-expenses/"+foreignExpenseID, token, "")
	if status != fiber.StatusForbidden {
		t.Errorf("foreign parent status = %d, want 403", status)
	}
}

func TestExpenseRequiresAuth(t *testing.T) {
	app, _ := newTestApp(newStubStore())

	status := request(t, app, "GET", "/api/expense/get-all", "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}
