package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

// ServiceController serves the service catalog.
type ServiceController struct {
	svc services.IServiceManager
}

func NewServiceController(svc services.IServiceManager) *ServiceController {
	return &ServiceController{svc: svc}
}

// GetAllServices returns all services, optionally filtered by ?category=
func (ctl *ServiceController) GetAllServices(c *fiber.Ctx) error {
	list, err := ctl.svc.Catalog().List(c.UserContext(), c.Query("category"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(list)
}

func (ctl *ServiceController) GetService(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	service, err := ctl.svc.Catalog().Get(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(service)
}

// CreateService creates a new service
func (ctl *ServiceController) CreateService(c *fiber.Ctx) error {
	var req models.ServiceRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	service, err := ctl.svc.Catalog().Create(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService updates a service
func (ctl *ServiceController) UpdateService(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req models.UpdateServiceRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	service, err := ctl.svc.Catalog().Update(c.UserContext(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(service)
}

// DeleteService deletes a service
func (ctl *ServiceController) DeleteService(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := ctl.svc.Catalog().Delete(c.UserContext(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
