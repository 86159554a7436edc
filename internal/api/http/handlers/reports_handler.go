package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicflo/report-service/internal/api/dto"
	"github.com/civicflo/report-service/internal/classifier"
	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/service"
	"github.com/civicflo/report-service/internal/storage"
	apperrors "github.com/civicflo/report-service/pkg/util"
)

// ReportsHandler accepts citizen report submissions.
type ReportsHandler struct {
	ingest     *service.IngestService
	classifier classifier.Classifier
	uploads    *storage.UploadSaver
}

// NewReportsHandler constructs handler.
func NewReportsHandler(ingest *service.IngestService, cls classifier.Classifier, uploads *storage.UploadSaver) *ReportsHandler {
	return &ReportsHandler{ingest: ingest, classifier: cls, uploads: uploads}
}

// SubmitReport POST /report. Accepts multipart (image + lat/lng) or a plain
// JSON body without an image, which rides on the fallback classification.
func (h *ReportsHandler) SubmitReport(c *fiber.Ctx) error {
	var (
		input service.SubmitInput
		err   error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		input, err = h.parseMultipart(c)
	} else {
		input, err = h.parseJSON(c)
	}
	if err != nil {
		return err
	}

	result, err := h.ingest.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	message := "Ticket created successfully"
	if result.IsDuplicate {
		status = fiber.StatusOK
		message = "Duplicate report found. Vote added to existing ticket."
	}
	return c.Status(status).JSON(dto.SubmitReportResponse{
		Message:     message,
		Ticket:      *result.Ticket,
		IsDuplicate: result.IsDuplicate,
	})
}

func (h *ReportsHandler) parseMultipart(c *fiber.Ctx) (service.SubmitInput, error) {
	lat, lng, err := parseCoordinates(c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		return service.SubmitInput{}, err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return service.SubmitInput{}, apperrors.NewValidationError("image is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return service.SubmitInput{}, apperrors.NewInternalError(err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return service.SubmitInput{}, apperrors.NewInternalError(err)
	}

	imageURL, err := h.uploads.Save(fileHeader.Filename, data)
	if err != nil {
		return service.SubmitInput{}, apperrors.NewInternalError(err)
	}

	return service.SubmitInput{
		ImageURL:      imageURL,
		ImageData:     data,
		ImageFilename: fileHeader.Filename,
		Latitude:      lat,
		Longitude:     lng,
		Description:   c.FormValue("description"),
	}, nil
}

func (h *ReportsHandler) parseJSON(c *fiber.Ctx) (service.SubmitInput, error) {
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return service.SubmitInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Lat == nil || req.Lng == nil {
		return service.SubmitInput{}, apperrors.NewValidationError("location (lat, lng) is required", nil)
	}

	fallback := h.classifier.Fallback()
	return service.SubmitInput{
		Latitude:       *req.Lat,
		Longitude:      *req.Lng,
		Description:    req.Description,
		Classification: &fallback,
	}, nil
}

func parseCoordinates(latRaw, lngRaw string) (float64, float64, error) {
	if latRaw == "" || lngRaw == "" {
		return 0, 0, apperrors.NewValidationError("location (lat, lng) is required", nil)
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return 0, 0, apperrors.NewValidationError("invalid latitude", map[string]any{"lat": latRaw})
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return 0, 0, apperrors.NewValidationError("invalid longitude", map[string]any{"lng": lngRaw})
	}
	if err := (domain.Point{Longitude: lng, Latitude: lat}).Validate(); err != nil {
		return 0, 0, apperrors.NewValidationError(err.Error(), nil)
	}
	return lat, lng, nil
}
