package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"bizportal/internal/common"
	"bizportal/internal/models"
	"bizportal/internal/services"
)

// BusinessHandlers handles business information requests
type BusinessHandlers struct {
	businessService services.BusinessService
	backupService   services.BackupService
}

// NewBusinessHandlers creates a new business handlers instance
func NewBusinessHandlers(businessService services.BusinessService, backupService services.BackupService) *BusinessHandlers {
	return &BusinessHandlers{
		businessService: businessService,
		backupService:   backupService,
	}
}

// GetBusinessInfo returns the caller's business record
//
//	@Summary	Get business information
//	@Tags		business
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.BusinessRecord
//	@Failure	401	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Failure	500	{object}	common.ErrorResponse
//	@Router		/business [get]
func (h *BusinessHandlers) GetBusinessInfo(c echo.Context) error {
	ctx := c.Request().Context()
	principal := common.GetPrincipalFromContext(ctx)
	if principal == nil {
		return errUnauthorized
	}

	record, err := h.businessService.Retrieve(ctx, principal)
	if err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// SaveBusinessInfo replaces the caller's business record
//
//	@Summary	Save business information
//	@Tags		business
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		record	body		models.BusinessRecord	true	"Business information"
//	@Success	200		{object}	models.BusinessRecord
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	401		{object}	common.ErrorResponse
//	@Failure	500		{object}	common.ErrorResponse
//	@Router		/business [put]
func (h *BusinessHandlers) SaveBusinessInfo(c echo.Context) error {
	ctx := c.Request().Context()
	principal := common.GetPrincipalFromContext(ctx)
	if principal == nil {
		return errUnauthorized
	}

	payload, err := decodeBusinessRecord(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if payload.IsEmpty() {
		return echo.NewHTTPError(http.StatusBadRequest, "Business information is required")
	}
	if err := c.Validate(payload); err != nil {
		return err
	}

	saved, err := h.businessService.Save(ctx, principal, payload)
	if err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, saved)
}

// GetBusinessTemplate returns a pre-filled record for new tenants. Nothing is stored.
func (h *BusinessHandlers) GetBusinessTemplate(c echo.Context) error {
	if common.GetPrincipalFromContext(c.Request().Context()) == nil {
		return errUnauthorized
	}
	return c.JSON(http.StatusOK, models.NewDefaultBusinessRecord())
}

// ExportBusinessInfo copies the caller's business record to object storage
//
//	@Summary	Back up business information
//	@Tags		business
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.BackupReceipt
//	@Failure	401	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Failure	503	{object}	common.ErrorResponse
//	@Router		/business/backup [post]
func (h *BusinessHandlers) ExportBusinessInfo(c echo.Context) error {
	ctx := c.Request().Context()
	principal := common.GetPrincipalFromContext(ctx)
	if principal == nil {
		return errUnauthorized
	}

	receipt, err := h.backupService.Export(ctx, principal)
	if err != nil {
		if errors.Is(err, common.ErrBackupDisabled) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Backup storage not configured")
		}
		return businessError(err)
	}

	return c.JSON(http.StatusOK, receipt)
}

// decodeBusinessRecord returns nil for an empty or null body. c.Bind cannot tell
// those apart from "{}", and all three must be rejected as missing input.
func decodeBusinessRecord(body io.Reader) (*models.BusinessRecord, error) {
	if body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var record models.BusinessRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
