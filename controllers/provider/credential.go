package provider

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

const formDateLayout = "2006-01-02"

func (ctl *Controller) GetCredentials(c *fiber.Ctx) error {
	list, err := ctl.svc.Provider().ListCredentials(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(list)
}

// AddCredential accepts JSON, or multipart/form-data with the scan in the
// "document" field and dates as YYYY-MM-DD.
func (ctl *Controller) AddCredential(c *fiber.Ctx) error {
	var (
		req      models.CredentialRequest
		file     io.Reader
		filename string
	)

	if controllers.IsMultipart(c) {
		if err := credentialFromForm(c, &req); err != nil {
			return utils.SendError(c, err)
		}
		if err := utils.Validate(req); err != nil {
			return utils.SendError(c, err)
		}
		f, name, err := controllers.OpenFormFile(c, "document")
		if err != nil {
			return utils.SendError(c, err)
		}
		if f != nil {
			defer f.Close()
			file, filename = f, name
		}
	} else if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	credential, err := ctl.svc.Provider().AddCredential(c.UserContext(), middleware.UserID(c), req, file, filename)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(credential)
}

func (ctl *Controller) DeleteCredential(c *fiber.Ctx) error {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := ctl.svc.Provider().DeleteCredential(c.UserContext(), middleware.UserID(c), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func credentialFromForm(c *fiber.Ctx, req *models.CredentialRequest) error {
	req.Type = c.FormValue("type")
	req.Name = c.FormValue("name")
	req.Issuer = c.FormValue("issuer")
	req.LicenseNumber = c.FormValue("license_number")
	req.DocumentURL = c.FormValue("document_url")

	var err error
	if req.IssueDate, err = formDate(c, "issue_date"); err != nil {
		return err
	}
	if req.ExpiryDate, err = formDate(c, "expiry_date"); err != nil {
		return err
	}
	return nil
}

func formDate(c *fiber.Ctx, field string) (*time.Time, error) {
	raw := c.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(formDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", services.ErrInvalidInput, field)
	}
	return &t, nil
}
