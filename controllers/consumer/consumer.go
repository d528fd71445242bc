// Package consumer holds the handlers customers use to browse providers,
// pay for finished bookings and leave reviews.
package consumer

import "github.com/meinhoongagan/home-services/services"

type Controller struct {
	svc services.IServiceManager
}

func New(svc services.IServiceManager) *Controller {
	return &Controller{svc: svc}
}
