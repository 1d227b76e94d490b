package treasury

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/rickgao/treasury-data/internal/model"
)

// ErrUnknownCUSIP means the securities search returned no match.
var ErrUnknownCUSIP = errors.New("unknown cusip")

// ResolveReference looks up the reference data of a CUSIP. When several
// auctions share the CUSIP, the earliest issued one wins.
func (c *Client) ResolveReference(ctx context.Context, cusip string) (*model.SecurityReference, error) {
	query := url.Values{}
	query.Set("cusip", cusip)
	query.Set("format", "json")

	body, err := c.doWithRetry(ctx, request{
		method: http.MethodGet,
		url:    c.securitiesURL,
		query:  query,
		accept: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("search cusip %s: %w", cusip, err)
	}

	var found []apiSecurity
	if err := json.Unmarshal(body, &found); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	refs := make([]*model.SecurityReference, 0, len(found))
	for _, s := range found {
		ref, err := s.toReference()
		if err != nil {
			c.logger.Warn("skipping unparsable security record", "cusip", cusip, "error", err)
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCUSIP, cusip)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].IssueDate.Before(refs[j].IssueDate)
	})
	return refs[0], nil
}
