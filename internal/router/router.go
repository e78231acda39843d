package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/broker"
	"github.com/KRN-011/OwnDiary-Backend/internal/category"
	"github.com/KRN-011/OwnDiary-Backend/internal/expense"
	"github.com/KRN-011/OwnDiary-Backend/internal/reports"
	"github.com/KRN-011/OwnDiary-Backend/internal/trade"
)

type Router struct {
	AuthHandler     *auth.Handler
	CategoryHandler *category.Handler
	ExpenseHandler  *expense.Handler
	TradeHandler    *trade.Handler
	BrokerHandler   *broker.Handler
	ReportsHandler  *reports.Handler
	AuthMW          fiber.Handler
	AuthLimiter     fiber.Handler
	WriteLimiter    fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := app.Group("/api/auth")
	if r.AuthLimiter != nil {
		authGroup.Use(r.AuthLimiter)
	}
	authGroup.Post("/register", r.AuthHandler.Register)
	authGroup.Post("/login", r.AuthHandler.Login)
	authGroup.Post("/logout", r.AuthHandler.Logout)
	authGroup.Get("/current-user", r.AuthMW, r.AuthHandler.CurrentUser)

	cat := app.Group("/api/expense-category", r.AuthMW)
	cat.Post("/create", r.writeMW(), r.CategoryHandler.Create)
	cat.Get("/get-all", r.CategoryHandler.GetAll)
	cat.Put("/update/:id", r.writeMW(), r.CategoryHandler.Update)
	cat.Delete("/delete/:id", r.writeMW(), r.CategoryHandler.Delete)

	exp := app.Group("/api/expense", r.AuthMW)
	exp.Post("/create", r.writeMW(), r.ExpenseHandler.Create)
	exp.Post("/create-sub-expenses", r.writeMW(), r.ExpenseHandler.CreateSubExpenses)
	exp.Get("/get-all", r.ExpenseHandler.GetAll)
	exp.Get("/sub-expenses/:id", r.ExpenseHandler.SubExpenses)
	exp.Put("/update/:id", r.writeMW(), r.ExpenseHandler.Update)
	exp.Delete("/delete/:id", r.writeMW(), r.ExpenseHandler.Delete)

	trd := app.Group("/api/trade", r.AuthMW)
	trd.Post("/create", r.writeMW(), r.TradeHandler.Create)
	trd.Get("/get-all", r.TradeHandler.GetAll)
	trd.Put("/update/:id", r.writeMW(), r.TradeHandler.Update)
	trd.Delete("/delete/:id", r.writeMW(), r.TradeHandler.Delete)
	trd.Get("/symbols", r.TradeHandler.Symbols)

	brk := app.Group("/api/broker", r.AuthMW)
	brk.Post("/create", r.writeMW(), r.BrokerHandler.Create)
	brk.Get("/get-all", r.BrokerHandler.GetAll)

	analytics := app.Group("/api/analytics", r.AuthMW)
	analytics.Get("/expense/cards", r.ExpenseHandler.CardsAnalytics)
	analytics.Get("/expense/graph", r.ExpenseHandler.GraphAnalytics)
	analytics.Get("/expense/list", r.ExpenseHandler.ListAnalytics)
	analytics.Get("/trade/cards", r.TradeHandler.CardsAnalytics)
	analytics.Get("/trade/graph", r.TradeHandler.GraphAnalytics)
	analytics.Get("/trade/list", r.TradeHandler.ListAnalytics)

	app.Get("/api/report/expense/statement", r.AuthMW, r.ReportsHandler.ExpenseStatement)
}

// writeMW returns the write limiter or a no-op when none is configured.
func (r *Router) writeMW() fiber.Handler {
	if r.WriteLimiter != nil {
		return r.WriteLimiter
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
