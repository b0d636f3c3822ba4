package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bizportal/internal/common"
	"bizportal/internal/services"
)

// TenantConfigHandlers handles the per-user namespace configuration
type TenantConfigHandlers struct {
	configService services.TenantConfigService
}

func NewTenantConfigHandlers(configService services.TenantConfigService) *TenantConfigHandlers {
	return &TenantConfigHandlers{configService: configService}
}

// UpdateTenantConfigRequest represents the user config update payload
type UpdateTenantConfigRequest struct {
	CustomerFolder string `json:"customer_folder"`
}

// GetTenantConfig returns the namespace the caller's requests resolve to
//
//	@Summary	Get the caller's customer folder
//	@Tags		userconfig
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.TenantConfig
//	@Failure	401	{object}	common.ErrorResponse
//	@Router		/userconfig [get]
func (h *TenantConfigHandlers) GetTenantConfig(c echo.Context) error {
	ctx := c.Request().Context()
	cfg, err := h.configService.Get(ctx, common.GetPrincipalFromContext(ctx))
	if err != nil {
		return tenantConfigError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

// UpdateTenantConfig points the caller at a different customer folder
//
//	@Summary	Set the caller's customer folder
//	@Tags		userconfig
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		UpdateTenantConfigRequest	true	"Customer folder"
//	@Success	200		{object}	models.TenantConfig
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	401		{object}	common.ErrorResponse
//	@Failure	409		{object}	common.ErrorResponse
//	@Failure	500		{object}	common.ErrorResponse
//	@Router		/userconfig [put]
func (h *TenantConfigHandlers) UpdateTenantConfig(c echo.Context) error {
	ctx := c.Request().Context()
	principal := common.GetPrincipalFromContext(ctx)
	if principal == nil {
		return errUnauthorized
	}

	var req UpdateTenantConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	cfg, err := h.configService.Update(ctx, principal, req.CustomerFolder)
	if err != nil {
		return tenantConfigError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func tenantConfigError(err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return errUnauthorized
	case errors.Is(err, common.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid customer folder")
	case errors.Is(err, common.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Customer folder already assigned")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
	}
}
