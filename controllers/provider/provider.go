// Package provider holds the handlers a service provider uses to manage
// its own profile, credentials and dashboard.
package provider

import "github.com/meinhoongagan/home-services/services"

type Controller struct {
	svc services.IServiceManager
}

func New(svc services.IServiceManager) *Controller {
	return &Controller{svc: svc}
}
