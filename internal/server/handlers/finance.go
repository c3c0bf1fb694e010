package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/ledger"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

var errNegativeAmount = errors.New("amount must not be negative")

type expenseRequest struct {
	Category    string            `json:"category" binding:"required"`
	Amount      models.FormNumber `json:"amount"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
}

// ListExpenses serves the expense tracker for a date range.
func (h *Handler) ListExpenses(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Expenses: true, Window: w})
	if err != nil {
		h.fail(c, err, "unable to load expenses")
		return
	}

	expenses := createdByOnly(snap.Expenses, ownerScope(currentUser(c)), func(e models.Expense) string { return e.CreatedBy })
	txs := models.ExpensesAsTransactions(expenses)
	c.JSON(http.StatusOK, gin.H{
		"date_range": w,
		"expenses":   expenses,
		"total":      finance.Totals(nil, txs).Expenses,
		"breakdown":  finance.CategoryBreakdown(txs),
	})
}

// CreateExpense records an expense. Unparseable amounts are stored as 0,
// negative ones are rejected.
func (h *Handler) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount.Negative() {
		badRequest(c, errNegativeAmount)
		return
	}
	now := h.now()
	date, err := dateOrToday(req.Date, now)
	if err != nil {
		badRequest(c, err)
		return
	}

	expense := models.Expense{
		ID:          h.newID(),
		Category:    req.Category,
		Amount:      req.Amount.OrZero(),
		Description: req.Description,
		Date:        date,
		CreatedBy:   currentUser(c).ID,
		CreatedAt:   now.UTC(),
	}
	if err := h.store.Expenses.Insert(c.Request.Context(), expense); err != nil {
		h.fail(c, err, "unable to save expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// DeleteExpense removes an expense. Staff can only remove their own.
func (h *Handler) DeleteExpense(c *gin.Context) {
	ctx := c.Request.Context()
	if owner := ownerScope(currentUser(c)); owner != "" {
		expense, err := findByID(ctx, h.store.Expenses, c.Param("id"))
		if err != nil {
			h.fail(c, err, "unable to load expense")
			return
		}
		if expense.CreatedBy != owner {
			h.fail(c, repository.ErrNotFound, "unable to load expense")
			return
		}
	}
	if err := h.store.Expenses.Delete(ctx, c.Param("id")); err != nil {
		h.fail(c, err, "unable to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

type transactionRequest struct {
	Type        models.TransactionKind `json:"type" binding:"required"`
	Category    string                 `json:"category"`
	Amount      models.FormNumber      `json:"amount"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	SheepID     string                 `json:"sheep_id"`
}

// ListTransactions serves the combined finance list with totals and
// breakdowns for a date range. Newest entries come first.
func (h *Handler) ListTransactions(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Sales: true, Expenses: true, Window: w})
	if err != nil {
		h.fail(c, err, "unable to load transactions")
		return
	}

	revenue, costs := snap.Revenue(), snap.Costs()
	all := make([]models.Transaction, 0, len(revenue)+len(costs))
	all = append(all, revenue...)
	all = append(all, costs...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})

	c.JSON(http.StatusOK, gin.H{
		"date_range":        w,
		"transactions":      all,
		"totals":            finance.Totals(revenue, costs),
		"revenue_breakdown": finance.CategoryBreakdown(revenue),
		"expense_breakdown": finance.CategoryBreakdown(costs),
	})
}

// CreateTransaction writes revenue to the sales table and expenses to the
// expenses table.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := models.OriginForKind(req.Type); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount.Negative() {
		badRequest(c, errNegativeAmount)
		return
	}
	now := h.now()
	date, err := dateOrToday(req.Date, now)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	creator := currentUser(c).ID
	var tx models.Transaction
	switch req.Type {
	case models.KindRevenue:
		transactionType := req.Category
		if transactionType == "" {
			transactionType = models.SaleCategory
		}
		sale := models.Sale{
			ID:              h.newID(),
			SheepID:         optionalID(req.SheepID),
			TransactionType: transactionType,
			Amount:          req.Amount.OrZero(),
			BuyerSeller:     req.Description,
			Date:            date,
			CreatedBy:       creator,
			CreatedAt:       now.UTC(),
		}
		err = h.store.Sales.Insert(ctx, sale)
		tx = sale.AsTransaction()
	default:
		if req.Category == "" {
			badRequest(c, errors.New("category is required for expenses"))
			return
		}
		expense := models.Expense{
			ID:          h.newID(),
			Category:    req.Category,
			Amount:      req.Amount.OrZero(),
			Description: req.Description,
			Date:        date,
			CreatedBy:   creator,
			CreatedAt:   now.UTC(),
		}
		err = h.store.Expenses.Insert(ctx, expense)
		tx = expense.AsTransaction()
	}
	if err != nil {
		h.fail(c, err, "unable to save transaction")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// DeleteTransaction removes an entry from the table it was read from.
func (h *Handler) DeleteTransaction(c *gin.Context) {
	origin, id := c.Param("origin"), c.Param("id")
	if !models.ValidOrigin(origin) {
		badRequest(c, fmt.Errorf("unknown transaction origin %q", origin))
		return
	}

	ctx := c.Request.Context()
	var err error
	if origin == models.TableSales {
		err = h.store.Sales.Delete(ctx, id)
	} else {
		err = h.store.Expenses.Delete(ctx, id)
	}
	if err != nil {
		h.fail(c, err, "unable to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

type linkRequest struct {
	Type models.LedgerType `json:"type" binding:"required"`
}

// LinkTransaction opens a pending debt or credit referencing a transaction.
func (h *Handler) LinkTransaction(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	origin, id := c.Param("origin"), c.Param("id")
	if !models.ValidOrigin(origin) {
		badRequest(c, fmt.Errorf("unknown transaction origin %q", origin))
		return
	}

	ctx := c.Request.Context()
	var tx models.Transaction
	if origin == models.TableSales {
		sale, err := findByID(ctx, h.store.Sales, id)
		if err != nil {
			h.fail(c, err, "unable to load transaction")
			return
		}
		tx = sale.AsTransaction()
	} else {
		expense, err := findByID(ctx, h.store.Expenses, id)
		if err != nil {
			h.fail(c, err, "unable to load transaction")
			return
		}
		tx = expense.AsTransaction()
	}

	record, err := ledger.LinkFromTransaction(tx, req.Type, currentUser(c).ID)
	if err != nil {
		badRequest(c, err)
		return
	}
	now := h.now().UTC()
	record.ID, record.CreatedAt, record.UpdatedAt = h.newID(), now, now

	if err := h.store.Ledger.Insert(ctx, record); err != nil {
		h.fail(c, err, "unable to save ledger record")
		return
	}
	h.logger.Info("transaction linked to ledger",
		zap.String("origin", origin), zap.String("transaction_id", id), zap.String("ledger_id", record.ID))
	c.JSON(http.StatusCreated, record)
}

// Analytics serves the chart bundle, over 6 months unless asked otherwise.
func (h *Handler) Analytics(c *gin.Context) {
	months := finance.DefaultTrendMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > finance.MaxTrendMonths {
			badRequest(c, fmt.Errorf("months must be between 1 and %d", finance.MaxTrendMonths))
			return
		}
		months = n
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Sales: true, Expenses: true, Window: finance.WindowAll})
	if err != nil {
		h.fail(c, err, "unable to load analytics")
		return
	}
	c.JSON(http.StatusOK, finance.BuildAnalytics(snap.Revenue(), snap.Costs(), months, h.now()))
}
