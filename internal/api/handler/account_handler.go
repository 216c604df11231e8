package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

// AccountHandler serves the SSO login flow and the signed-in account.
type AccountHandler struct {
	auth         ports.AuthService
	secureCookie bool
}

func NewAccountHandler(auth ports.AuthService, secureCookie bool) *AccountHandler {
	return &AccountHandler{auth: auth, secureCookie: secureCookie}
}

type loginCallbackQuery struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
}

type accountResponse struct {
	*domain.User
	Avatar string `json:"avatar"`
}

type apiKeyResponse struct {
	APIPublicKey string `json:"api_public_key"`
}

type tierSyncResponse struct {
	Status string `json:"status"`
	Tier   int    `json:"tier"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

type patronUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type patronGroupResponse struct {
	Tier  int          `json:"tier"`
	Name  string       `json:"name"`
	Users []patronUser `json:"users"`
}

func newAccountResponse(u *domain.User) accountResponse {
	return accountResponse{User: u, Avatar: u.AvatarURL()}
}

// Login redirects to the SSO provider.
//
// @Summary      Start SSO login
// @Tags         account
// @Success      302
// @Router       /account/login [get]
func (h *AccountHandler) Login(c echo.Context) error {
	url, err := h.auth.BeginLogin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// LoginCallback completes the SSO login, sets the session cookie and
// redirects home.
//
// @Summary      Complete Discord login
// @Tags         account
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "Signed state"
// @Success      302
// @Failure      400    {object}  domain.ErrorReport
// @Router       /account/login/discord/success [get]
func (h *AccountHandler) LoginCallback(c echo.Context) error {
	var q loginCallbackQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.auth.CompleteLogin(c.Request().Context(), ports.LoginCallback{Code: q.Code, State: q.State})
	if err != nil {
		return err
	}

	h.writeSessionCookie(c, res.Cookie)
	return c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie and redirects home.
//
// @Summary      Log out
// @Tags         account
// @Success      302
// @Router       /account/logout [get]
func (h *AccountHandler) Logout(c echo.Context) error {
	h.writeSessionCookie(c, h.auth.Logout())
	return c.Redirect(http.StatusFound, "/")
}

// Me returns the signed-in user.
//
// @Summary      Current account
// @Tags         account
// @Produce      json
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  domain.ErrorReport
// @Router       /account [get]
func (h *AccountHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountResponse(user))
}

// RotateAPIKey issues a new public API key.
//
// @Summary      Rotate API key
// @Tags         account
// @Produce      json
// @Success      200  {object}  apiKeyResponse
// @Router       /account/api-key [post]
func (h *AccountHandler) RotateAPIKey(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	updated, err := h.auth.RotateAPIKey(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiKeyResponse{APIPublicKey: updated.APIPublicKey})
}

// SyncBenefits refreshes the patron tier of the signed-in user.
//
// @Summary      Sync patron benefits
// @Tags         account
// @Produce      json
// @Success      200  {object}  tierSyncResponse
// @Router       /account/benefits/sync [post]
func (h *AccountHandler) SyncBenefits(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	res, err := h.auth.SyncBenefitTier(c.Request().Context(), user)
	if err != nil {
		return err
	}
	tier := user.Patron
	if res.Status == ports.TierSyncApplied {
		tier = res.Tier
	}
	return c.JSON(http.StatusOK, tierSyncResponse{
		Status: string(res.Status),
		Tier:   int(tier),
		Name:   tier.String(),
		Reason: res.Reason,
	})
}

// Patrons lists supporters grouped by tier.
//
// @Summary      Patrons by tier
// @Tags         account
// @Produce      json
// @Success      200  {array}  patronGroupResponse
// @Router       /patrons [get]
func (h *AccountHandler) Patrons(c echo.Context) error {
	groups, err := h.auth.Patrons(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]patronGroupResponse, 0, len(groups))
	for _, g := range groups {
		users := make([]patronUser, 0, len(g.Users))
		for _, u := range g.Users {
			users = append(users, patronUser{ID: u.ID, Username: u.Username, Avatar: u.AvatarURL()})
		}
		out = append(out, patronGroupResponse{Tier: int(g.Tier), Name: g.Name, Users: users})
	}
	return c.JSON(http.StatusOK, out)
}

// APIMe returns the owner of the private_key query parameter.
//
// @Summary      API key owner
// @Tags         api
// @Produce      json
// @Param        private_key  query     string  true  "Public API key"
// @Success      200          {object}  accountResponse
// @Failure      401          {object}  domain.ErrorReport
// @Router       /api/me [get]
func (h *AccountHandler) APIMe(c echo.Context) error {
	return h.Me(c)
}

func (h *AccountHandler) writeSessionCookie(c echo.Context, sc domain.SessionCookie) {
	cookie := &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    sc.Value,
		Path:     domain.SessionCookiePath,
		MaxAge:   int(sc.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if sc.MaxAge > 0 {
		cookie.Expires = time.Now().Add(sc.MaxAge)
	}
	c.SetCookie(cookie)
}
