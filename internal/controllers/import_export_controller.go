package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"coa-service/internal/dto"
	"coa-service/internal/integrations/keboola"
	"coa-service/internal/services"
	apperrors "coa-service/pkg/errors"
	"coa-service/pkg/utils"
)

const maxImportFileSize = 20 << 20 // 20 MiB

type ImportExportController struct {
	exportService services.ExportServiceInterface
	logger        *zap.Logger
}

func NewImportExportController(exportService services.ExportServiceInterface, logger *zap.Logger) *ImportExportController {
	return &ImportExportController{exportService: exportService, logger: logger}
}

// ExportExcel streams the working set as an .xlsx workbook.
func (c *ImportExportController) ExportExcel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	header, rows, err := c.exportService.ExportRows(reqCtx, sessionID, ctx.QueryParam("business_unit"), exportColumns(ctx))
	if err != nil {
		c.logger.Error("excel export failed", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("coa_%s.xlsx", time.Now().Format("2006-01-02"))
	return c.respondWithXLSX(ctx, "Chart of Accounts", fileName, header, rows)
}

// ExportCSV streams the working set as CSV in the platform column order.
func (c *ImportExportController) ExportCSV(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	header, rows, err := c.exportService.ExportRows(reqCtx, sessionID, ctx.QueryParam("business_unit"), exportColumns(ctx))
	if err != nil {
		c.logger.Error("csv export failed", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("coa_%s.csv", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return keboola.EncodeCSV(ctx.Response().Writer, header, rows)
}

// ExportJSON streams the working set as an array of column-keyed records.
func (c *ImportExportController) ExportJSON(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	header, rows, err := c.exportService.ExportRows(reqCtx, sessionID, ctx.QueryParam("business_unit"), exportColumns(ctx))
	if err != nil {
		c.logger.Error("json export failed", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(header))
		for i, name := range header {
			record[name] = row[i]
		}
		records = append(records, record)
	}

	fileName := fmt.Sprintf("coa_%s.json", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.JSON(http.StatusOK, records)
}

// exportColumns reads the optional comma-separated column subset.
func exportColumns(ctx echo.Context) []string {
	raw := ctx.QueryParam("columns")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Template generates an import template with one sample row per account type.
func (c *ImportExportController) Template(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := utils.SessionIDFromContext(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	req := dto.TemplateRequestDTO{BusinessUnit: ctx.QueryParam("business_unit")}
	if raw := ctx.QueryParam("account_types"); raw != "" {
		req.AccountTypes = strings.Split(strings.ToUpper(raw), ",")
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	header, rows := c.exportService.TemplateRows(req)
	return c.respondWithXLSX(ctx, "COA Template", "coa_template.xlsx", header, rows)
}

// ImportExcel validates an uploaded workbook and applies it to the working set
// per the requested mode (replace, append or update).
func (c *ImportExportController) ImportExcel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	sessionID, err := utils.SessionIDFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	mode := ctx.FormValue("mode")
	if mode == "" {
		mode = dto.ImportModeValidate
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("file form field is required"), c.logger)
	}
	if fileHeader.Size > maxImportFileSize {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("file exceeds the 20 MiB limit"), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	records, err := parseWorkbook(src)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError(err.Error()), c.logger)
	}

	result, err := c.exportService.Import(reqCtx, sessionID, records, mode)
	if err != nil {
		c.logger.Error("import failed", zap.Error(err), zap.String("session_id", sessionID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message := "Import validated"
	if result.Applied {
		message = "Import applied to working copy"
	}
	return utils.SuccessResponse(ctx, result, message, http.StatusOK)
}

func (c *ImportExportController) respondWithXLSX(ctx echo.Context, sheet, fileName string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	f.SetSheetRow(sheet, "A1", &headerRow)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	f.SetColWidth(sheet, "A", lastCol, 22)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		f.SetSheetRow(sheet, cell, &values)
	}

	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

// parseWorkbook reads the first sheet into header-keyed records.
func parseWorkbook(src io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			if value != "" {
				empty = false
			}
			record[strings.ToUpper(strings.TrimSpace(name))] = value
		}
		if !empty {
			records = append(records, record)
		}
	}
	return records, nil
}
