package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// LatestUsers lists the most recently registered customers, newest first.
func (c *Client) LatestUsers(ctx context.Context, token string, take int) ([]domain.User, error) {
	params := url.Values{}
	params.Set("order", "DESC")
	if take > 0 {
		params.Set("take", strconv.Itoa(take))
	}

	req, err := c.newRequest(ctx, http.MethodGet, "users?"+params.Encode(), nil, token)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}
	page, err := decodeJSON[Page[domain.User]](resp, "users")
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// SaveAddress creates or replaces the delivery address of a user and returns
// the persisted record with its assigned ID.
func (c *Client) SaveAddress(ctx context.Context, token string, address domain.Address) (domain.Address, error) {
	userID := strings.TrimSpace(address.UserID)
	if userID == "" {
		return domain.Address{}, fmt.Errorf("marketplace: user id is required")
	}

	endpoint := fmt.Sprintf("users/%s/address", url.PathEscape(userID))
	req, err := c.newJSONRequest(ctx, http.MethodPut, endpoint, address, token)
	if err != nil {
		return domain.Address{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Address{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Address{}, c.errorFromResponse(resp)
	}
	return decodeJSON[domain.Address](resp, "address")
}
