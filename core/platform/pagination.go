package platform

import (
	"context"
	"fmt"
	"strconv"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 50

// OffsetToken encodes a page number as a continuation token.
func OffsetToken(page int) string {
	return strconv.Itoa(page)
}

// ParseOffsetToken decodes a page-number continuation token. The empty token is page 1.
func ParseOffsetToken(token string) (int, error) {
	if token == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(token)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return page, nil
}

// Drain fetches every page of kind from client, following continuation tokens
// until none is returned. Items keep platform order across pages.
func Drain(ctx context.Context, client Client, kind Kind, pageSize int, filters Filters) ([]Entity, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		items []Entity
		token string
		seen  = make(map[string]struct{})
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := client.FetchPage(ctx, kind, token, pageSize, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s page from %s: %w", kind, client.Platform(), err)
		}
		items = append(items, page.Items...)

		if !page.HasNext() {
			return items, nil
		}
		if _, dup := seen[page.Next]; dup {
			return nil, fmt.Errorf("%w: %s returned token %q twice", ErrInvalidToken, client.Platform(), page.Next)
		}
		seen[page.Next] = struct{}{}
		token = page.Next
	}
}
