package payor

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcms/payor-api/internal/platform/auth"
	"github.com/hcms/payor-api/internal/platform/errs"
)

type Handler struct {
	svc    *Service
	issuer *auth.TokenIssuer
}

func NewHandler(svc *Service, issuer *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterRoutes wires the unauthenticated login routes onto public and the
// payor-scoped routes onto api.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/login", h.Login)
	public.POST("/auth/logout", h.Logout)

	api.GET("/payors/me", h.Me)
	api.GET("/payors/me/settings", h.GetSettings)
	api.PUT("/payors/me/settings", h.UpdateSettings)
	api.POST("/payors/me/insurance-mappings", h.MapInsurance)
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool          `json:"success"`
	AccessToken string        `json:"access_token"`
	Payor       *auth.Identity `json:"payor"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	p, err := h.svc.Authenticate(c.Request().Context(), identifier, req.Password)
	if err != nil {
		if errs.KindOf(err) == errs.KindAccessDenied {
			return echo.NewHTTPError(http.StatusUnauthorized, errs.ReasonOf(err))
		}
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}

	id := auth.Identity{PayorID: p.PayorID, Email: p.Email, Name: p.Name, Organization: p.Organization}
	token, err := h.issuer.Issue(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "token issuance failed")
	}

	return c.JSON(http.StatusOK, loginResponse{Success: true, AccessToken: token, Payor: &id})
}

func (h *Handler) Logout(c echo.Context) error {
	// Tokens are stateless; logout is client-side discard.
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Logout successful"})
}

func (h *Handler) Me(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), payorID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetSettings(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	settings, err := h.svc.GetSettings(c.Request().Context(), payorID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, settings)
}

// MapInsurance registers an insurance identifier as belonging to the
// authenticated payor so claim intake can route it.
func (h *Handler) MapInsurance(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var req struct {
		InsuranceID string `json:"insurance_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.MapInsurance(c.Request().Context(), req.InsuranceID, payorID); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":      true,
		"insurance_id": req.InsuranceID,
		"payor_id":     payorID,
	})
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	payorID := auth.PayorIDFromContext(c.Request().Context())
	var settings Settings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateSettings(c.Request().Context(), payorID, settings); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), errs.ReasonOf(err))
	}
	return c.JSON(http.StatusOK, settings)
}
