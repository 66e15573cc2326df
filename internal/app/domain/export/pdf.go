package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/voyago/voyago/internal/app/domain/media"
	"github.com/voyago/voyago/internal/app/models"
	"github.com/voyago/voyago/internal/app/observability/metrics"
)

const defaultMapEndpoint = "https://staticmap.openstreetmap.de/staticmap.php"

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	PDF(ctx context.Context, itinerary *models.Itinerary) ([]byte, error)
	ShareQR(id uuid.UUID) ([]byte, error)
}

type ServiceImpl struct {
	logger      *zap.Logger
	images      media.Service
	httpClient  *http.Client
	mapEndpoint string
	baseURL     string
}

func NewService(images media.Service, baseURL string, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		images:      images,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		mapEndpoint: defaultMapEndpoint,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// PDF renders the itinerary as a printable document. Every required input
// (the static map snapshot, the per-day attraction image) must be captured;
// any fetch failure aborts the whole export rather than emitting a partial
// file.
func (s *ServiceImpl) PDF(ctx context.Context, itinerary *models.Itinerary) ([]byte, error) {
	ctx, span := otel.Tracer("ExportService").Start(ctx, "PDF", trace.WithAttributes(
		attribute.String("itinerary.destination", itinerary.Destination),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "PDF"), zap.String("destination", itinerary.Destination))
	if m := metrics.Get(); m != nil {
		m.ExportRequestsTotal.Add(ctx, 1)
	}

	mapPNG, err := s.fetchMapSnapshot(ctx, itinerary)
	if err != nil {
		l.Error("Map snapshot fetch failed, aborting export", zap.Error(err))
		return nil, models.NewAppError(models.CategoryExport,
			"Could not capture the trip map. The export was cancelled.", err)
	}

	dayImages := make(map[int][]byte, len(itinerary.DailyPlans))
	for _, plan := range itinerary.DailyPlans {
		if len(plan.Activities) == 0 {
			continue
		}
		img, err := s.fetchActivityImage(ctx, plan.Activities[0].AttractionName, itinerary.Destination)
		if err != nil {
			l.Error("Attraction image fetch failed, aborting export",
				zap.Int("day", plan.Day), zap.Error(err))
			return nil, models.NewAppError(models.CategoryExport,
				"Could not capture an attraction image. The export was cancelled.", err)
		}
		dayImages[plan.Day] = img
	}

	return renderPDF(itinerary, mapPNG, dayImages)
}

func (s *ServiceImpl) fetchMapSnapshot(ctx context.Context, itinerary *models.Itinerary) ([]byte, error) {
	if itinerary.Coordinates == nil {
		return nil, fmt.Errorf("itinerary has no destination coordinates")
	}
	url := fmt.Sprintf("%s?center=%f,%f&zoom=12&size=600x300&maptype=mapnik",
		s.mapEndpoint, itinerary.Coordinates.Lat, itinerary.Coordinates.Lng)
	return s.fetchBytes(ctx, url)
}

// fetchActivityImage resolves the media service result into raw image bytes.
// A generated image arrives as a data URL and is decoded in place; a
// placeholder is fetched over HTTP.
func (s *ServiceImpl) fetchActivityImage(ctx context.Context, attractionName, destination string) ([]byte, error) {
	result := s.images.AttractionImage(ctx, attractionName, destination)
	if data, ok := strings.CutPrefix(result.Source, "data:image/jpeg;base64,"); ok {
		return base64.StdEncoding.DecodeString(data)
	}
	return s.fetchBytes(ctx, result.Source)
}

func (s *ServiceImpl) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func renderPDF(itinerary *models.Itinerary, mapPNG []byte, dayImages map[int][]byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, itinerary.Title, "", "L", false)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s | %d days | %s - %s",
		itinerary.Destination, itinerary.Duration,
		models.OrNA(itinerary.StartDate), models.OrNA(itinerary.EndDate)))
	pdf.Ln(12)

	mapOpts := gofpdf.ImageOptions{ImageType: contentImageType(mapPNG)}
	pdf.RegisterImageOptionsReader("map", mapOpts, bytes.NewReader(mapPNG))
	pdf.ImageOptions("map", 10, pdf.GetY(), 190, 0, true, mapOpts, 0, "")
	pdf.Ln(6)

	if len(itinerary.TravelTips) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, "Travel Tips")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		for _, tip := range itinerary.TravelTips {
			pdf.MultiCell(0, 6, fmt.Sprintf("- %s: %s", tip.Tip, tip.Explanation), "", "L", false)
		}
		pdf.Ln(4)
	}

	for _, plan := range itinerary.DailyPlans {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, fmt.Sprintf("Day %d: %s", plan.Day, plan.Theme))
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Weather: %s, %s",
			models.OrNA(plan.Weather.Forecast), models.OrNA(plan.Weather.Temperature)))
		pdf.Ln(8)

		if img, ok := dayImages[plan.Day]; ok {
			opts := gofpdf.ImageOptions{ImageType: contentImageType(img)}
			name := fmt.Sprintf("day-%d", plan.Day)
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
			pdf.ImageOptions(name, 10, pdf.GetY(), 120, 0, true, opts, 0, "")
			pdf.Ln(4)
		}

		pdf.SetFont("Arial", "", 11)
		for _, activity := range plan.Activities {
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%s - %s", activity.Time, activity.AttractionName), "", "L", false)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, activity.Description, "", "L", false)
			pdf.MultiCell(0, 6, fmt.Sprintf("Hours: %s | Duration: %s | Cost: %s",
				models.OrNA(activity.OpeningHours),
				models.OrNA(activity.EstimatedDuration),
				models.OrNA(activity.AverageCost)), "", "L", false)
			pdf.Ln(2)
		}

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Food to try")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%s at %s",
			plan.FoodToTry.DishName, models.OrNA(plan.FoodToTry.SuggestedRestaurant)), "", "L", false)
	}

	if len(itinerary.PackingList) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, "Packing List")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		for _, item := range itinerary.PackingList {
			pdf.MultiCell(0, 6, fmt.Sprintf("- %s (%s)", item.Item, item.Reason), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// contentImageType sniffs the registered image format; gofpdf needs it named.
func contentImageType(data []byte) string {
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		return "PNG"
	}
	return "JPG"
}
