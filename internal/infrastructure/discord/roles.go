package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xivapi/common-backend/internal/core/ports"
)

const defaultRoleTimeout = 5 * time.Second

// RoleClient asks the community bot which patron tier a Discord member holds.
// The bot answers {"code": <status>, "data": <tier>}.
type RoleClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewRoleClient(baseURL, token string, client *http.Client) *RoleClient {
	if client == nil {
		client = &http.Client{Timeout: defaultRoleTimeout}
	}
	return &RoleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    client,
	}
}

type roleResponse struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func (c *RoleClient) UserRole(ctx context.Context, externalID string) (ports.RoleResponse, error) {
	endpoint := fmt.Sprintf("%s/users/%s/role", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.RoleResponse{}, fmt.Errorf("build role request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.RoleResponse{}, fmt.Errorf("role lookup: %w", err)
	}
	defer resp.Body.Close()

	var body roleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Without a body the transport status is all we know.
		return ports.RoleResponse{Code: resp.StatusCode}, nil
	}

	out := ports.RoleResponse{Code: body.Code}
	if out.Code == 0 {
		out.Code = resp.StatusCode
	}
	if len(body.Data) > 0 && string(body.Data) != "null" {
		if err := json.Unmarshal(body.Data, &out.Tier); err != nil {
			return ports.RoleResponse{}, fmt.Errorf("decode role tier: %w", err)
		}
	}
	return out, nil
}
