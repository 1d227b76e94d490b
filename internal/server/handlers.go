package server

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/analytics"
	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/version"
)

type priceJSON struct {
	CUSIP     string              `json:"cusip"`
	Date      string              `json:"date"`
	Buy       decimal.NullDecimal `json:"buy"`
	Sell      decimal.NullDecimal `json:"sell"`
	EndOfDay  decimal.NullDecimal `json:"end_of_day"`
	Reference *referenceJSON      `json:"reference,omitempty"`
}

type referenceJSON struct {
	IssueDate        string  `json:"issue_date"`
	MaturityDate     string  `json:"maturity_date"`
	SecurityType     string  `json:"security_type"`
	Term             string  `json:"term"`
	CouponRate       float64 `json:"coupon_rate"`
	PaymentFrequency string  `json:"payment_frequency"`
	Spread           float64 `json:"spread"`
	TypeLabel        string  `json:"type_label"`
}

type yieldJSON struct {
	CUSIP          string              `json:"cusip"`
	SecurityType   string              `json:"security_type"`
	IssueDate      string              `json:"issue_date"`
	MaturityDate   string              `json:"maturity_date"`
	Coupon         string              `json:"coupon"`
	TimeToMaturity float64             `json:"time_to_maturity"`
	Term           float64             `json:"term"`
	Price          decimal.NullDecimal `json:"price"`
	Yield          *float64            `json:"yield"` // null when not computable
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// dateParam parses the :date path parameter.
func dateParam(c *gin.Context) (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func (s *Server) health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":  status,
		"version": version.Current(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) prices(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	rows, err := s.reads.RetrieveAsOf(c.Request.Context(), date)
	if err != nil {
		s.logger.Error("retrieve failed", "date", c.Param("date"), "error", err)
		errorJSON(c, http.StatusInternalServerError, "retrieve failed")
		return
	}

	out := make([]priceJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, toPriceJSON(r))
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Param("date"), "prices": out})
}

func (s *Server) yields(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	table, err := s.reads.YieldTable(c.Request.Context(), date)
	if err != nil {
		s.logger.Error("yield table failed", "date", c.Param("date"), "error", err)
		errorJSON(c, http.StatusInternalServerError, "yield table failed")
		return
	}

	out := make([]yieldJSON, 0, len(table))
	for _, r := range table {
		out = append(out, toYieldJSON(r))
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Param("date"), "yields": out})
}

func (s *Server) update(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	res, err := s.updater.Update(c.Request.Context(), date)
	if err != nil {
		s.logger.Error("update failed", "date", c.Param("date"), "error", err)
		errorJSON(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      res.Date.Format(time.DateOnly),
		"before":    res.Before.String(),
		"outcome":   res.Outcome,
		"confirmed": res.Confirmed,
		"rows":      res.Rows,
	})
}

func toPriceJSON(r model.JoinedRow) priceJSON {
	p := priceJSON{
		CUSIP:    r.CUSIP,
		Date:     r.Date.Format(time.DateOnly),
		Buy:      r.Buy,
		Sell:     r.Sell,
		EndOfDay: r.EndOfDay,
	}
	if ref := r.Reference; ref != nil {
		p.Reference = &referenceJSON{
			IssueDate:        ref.IssueDate.Format(time.DateOnly),
			MaturityDate:     ref.MaturityDate.Format(time.DateOnly),
			SecurityType:     string(ref.SecurityType),
			Term:             ref.Term,
			CouponRate:       ref.CouponRate,
			PaymentFrequency: ref.PaymentFrequency,
			Spread:           ref.Spread,
			TypeLabel:        ref.TypeLabel,
		}
	}
	return p
}

func toYieldJSON(r analytics.YieldRow) yieldJSON {
	y := yieldJSON{
		CUSIP:          r.CUSIP,
		SecurityType:   string(r.SecurityType),
		IssueDate:      r.IssueDate.Format(time.DateOnly),
		MaturityDate:   r.MaturityDate.Format(time.DateOnly),
		Coupon:         r.CouponLabel,
		TimeToMaturity: r.TimeToMaturity,
		Term:           r.Term,
		Price:          r.Price,
	}
	if !math.IsNaN(r.Yield) {
		v := r.Yield
		y.Yield = &v
	}
	return y
}
