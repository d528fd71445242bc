package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/storage"
)

// DefaultServices is the catalog a fresh install starts with.
var DefaultServices = []models.Service{
	{Name: "Plumbing", Category: "plumbing", Icon: "wrench", BasePrice: 60,
		Description: "Leaks, clogs, fixture and pipe repairs"},
	{Name: "Electrical", Category: "electrical", Icon: "bolt", BasePrice: 70,
		Description: "Wiring, outlets, lighting and panel work"},
	{Name: "House Cleaning", Category: "cleaning", Icon: "broom", BasePrice: 40,
		Description: "Regular and deep cleaning"},
	{Name: "Lawn Care", Category: "gardening", Icon: "leaf", BasePrice: 35,
		Description: "Mowing, trimming and yard cleanup"},
	{Name: "Painting", Category: "painting", Icon: "paint-roller", BasePrice: 50,
		Description: "Interior and exterior painting"},
	{Name: "Appliance Repair", Category: "repair", Icon: "tools", BasePrice: 55,
		Description: "Washer, dryer, fridge and oven repair"},
	{Name: "Moving Help", Category: "moving", Icon: "truck", BasePrice: 45,
		Description: "Packing, loading and furniture assembly"},
}

// Seed inserts the default catalog and the admin account when missing. It
// works against any storage and is safe to run on every start.
func Seed(ctx context.Context, stg storage.IStorage, cfg config.Config, log logger.ILogger) error {
	existing, err := stg.Service().List(ctx, "")
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, s := range existing {
		names[strings.ToLower(s.Name)] = true
	}

	added := 0
	for _, s := range DefaultServices {
		if names[strings.ToLower(s.Name)] {
			continue
		}
		service := s
		if _, err := stg.Service().Create(ctx, &service); err != nil {
			return fmt.Errorf("seed service %q: %w", s.Name, err)
		}
		added++
	}
	if added > 0 {
		log.Info("seeded services", logger.Int("count", added))
	}

	return seedAdmin(ctx, stg, cfg, log)
}

func seedAdmin(ctx context.Context, stg storage.IStorage, cfg config.Config, log logger.ILogger) error {
	if cfg.SeedAdminPassword == "" {
		log.Warning("SEED_ADMIN_PASSWORD is empty, admin account not seeded")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	_, err := stg.User().GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := services.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := stg.User().Create(ctx, &models.User{
		Username: services.AdminUsername,
		Email:    email,
		Password: hashed,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("seeded admin account", logger.Uint("user_id", admin.ID), logger.String("email", admin.Email))
	return nil
}
