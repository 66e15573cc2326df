package export

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/voyago/voyago/internal/app/models"
)

// ShareQR encodes the share link for a saved itinerary as a PNG QR code.
func (s *ServiceImpl) ShareQR(id uuid.UUID) ([]byte, error) {
	link := fmt.Sprintf("%s/itineraries/%s", s.baseURL, id.String())
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, models.NewAppError(models.CategoryExport,
			"Could not build the share code.", err)
	}
	return png, nil
}
