package handler

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	_ "golang.org/x/image/webp"

	"github.com/landcover-microservice/internal/domain"
	apperrors "github.com/landcover-microservice/internal/pkg/errors"
	"github.com/landcover-microservice/internal/pkg/validator"
)

// placeParam - название места из пути, %20 и т.п. раскодируются
func placeParam(c *fiber.Ctx) (string, error) {
	place, err := url.PathUnescape(c.Params("place"))
	if err != nil {
		return "", apperrors.ErrInvalidRequest.WithMessage("invalid place encoding")
	}
	place = strings.TrimSpace(place)
	if place == "" {
		return "", apperrors.ErrInvalidRequest.WithMessage("place is required")
	}
	return place, nil
}

// parseTiles разбирает сетку вида "3x2"; пустая строка - без разбиения
func parseTiles(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	var cols, rows int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &cols, &rows); err != nil || cols < 1 || rows < 1 {
		return 0, 0, apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("invalid tiles %q, expected COLSxROWS", s))
	}
	return cols, rows, nil
}

// parsePad разбирает "5,15,15"
func parsePad(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("invalid pad %q", s))
		}
		out = append(out, v)
	}
	return out, nil
}

func formFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

func formInt(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}

func decodeUpload(fh *multipart.FileHeader) (image.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage("cannot read upload " + fh.Filename)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.ErrValidation.WithMessage(fmt.Sprintf("%s: unsupported or corrupt image", fh.Filename))
	}
	return img, nil
}

func validationError(err error) error {
	return apperrors.ErrValidation.WithDetails(validator.FieldErrors(err))
}

func parsePolicy(s string) domain.PlantingPolicy {
	p, _ := domain.ParsePlantingPolicy(strings.ToLower(s))
	return p
}
