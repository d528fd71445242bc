package controllers

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/services"
)

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", services.ErrInvalidInput, name)
	}
	return uint(id), nil
}

// QueryOptionalBool returns nil when the query parameter is absent.
func QueryOptionalBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", services.ErrInvalidInput, name)
	}
	return &v, nil
}

// IsMultipart reports whether the request body is multipart/form-data.
func IsMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// OpenFormFile opens an uploaded file. It returns nil when the field is absent.
func OpenFormFile(c *fiber.Ctx, field string) (multipart.File, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("%w: cannot read %s", services.ErrInvalidInput, field)
	}
	return file, header.Filename, nil
}
