package treasury

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/treasury-data/internal/model"
)

// taTimeLayout is the timestamp layout used by TA_WS.
const taTimeLayout = "2006-01-02T15:04:05"

// ParsePercent converts "0.625000" (percent) to 0.00625. Empty input is 0.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse percent %q: %w", s, err)
	}
	return f / 100, nil
}

// ParseDate parses a TA_WS timestamp or a plain date to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{taTimeLayout, time.DateOnly, "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

// securityTypeOf maps the TA_WS "type" field; cash management bills are bills.
func securityTypeOf(s apiSecurity) (model.SecurityType, error) {
	kind := s.Type
	if kind == "" {
		kind = s.SecurityType
	}
	if kind == "CMB" {
		return model.Bill, nil
	}
	return model.ParseSecurityType(kind)
}

// toReference converts an API record to a SecurityReference.
func (s apiSecurity) toReference() (*model.SecurityReference, error) {
	issue, err := ParseDate(s.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issue date: %w", err)
	}
	maturity, err := ParseDate(s.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("maturity date: %w", err)
	}
	coupon, err := ParsePercent(s.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("interest rate: %w", err)
	}
	spread, err := ParsePercent(s.Spread)
	if err != nil {
		return nil, fmt.Errorf("spread: %w", err)
	}
	kind, err := securityTypeOf(s)
	if err != nil {
		return nil, err
	}

	return &model.SecurityReference{
		CUSIP:            strings.TrimSpace(s.CUSIP),
		IssueDate:        issue,
		MaturityDate:     maturity,
		SecurityType:     kind,
		Term:             s.SecurityTerm,
		CouponRate:       coupon,
		PaymentFrequency: s.InterestPaymentFrequency,
		Spread:           spread,
		TypeLabel:        s.SecurityType,
	}, nil
}
