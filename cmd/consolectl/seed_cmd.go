package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	caredomain "github.com/hanamiya/console/modules/care/domain"
	carepersistence "github.com/hanamiya/console/modules/care/infrastructure/persistence"
	merchantdomain "github.com/hanamiya/console/modules/merchant/domain"
	merchantpersistence "github.com/hanamiya/console/modules/merchant/infrastructure/persistence"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/configuration"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert development fixtures into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			if !conf.Database.Enabled {
				return fmt.Errorf("seed requires DB_ENABLED=true")
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			if err != nil {
				return fmt.Errorf("failed to create database pool: %w", err)
			}
			defer pool.Close()

			ctx = composables.WithPool(ctx, pool)
			return composables.InTx(ctx, seedFixtures)
		},
	}
}

func seedFixtures(ctx context.Context) error {
	now := time.Now()

	offices := carepersistence.NewPgOfficeRepository()
	groups := carepersistence.NewPgGroupRepository()
	teams := carepersistence.NewPgTeamRepository()
	staff := carepersistence.NewPgStaffRepository()
	users := carepersistence.NewPgUserRepository()

	office := caredomain.Office{
		ID:         uuid.New(),
		Name:       "Sakura Office",
		PostalCode: "150-0001",
		Address:    "1-2-3 Jingumae, Shibuya",
		Phone:      "03-0000-0000",
		Status:     caredomain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := offices.Create(ctx, office); err != nil {
		return err
	}

	group := caredomain.Group{
		ID:          uuid.New(),
		OfficeID:    office.ID,
		Name:        "Daycare A",
		Description: "Morning daycare group",
		Status:      caredomain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := groups.Create(ctx, group); err != nil {
		return err
	}

	team := caredomain.Team{
		ID:        uuid.New(),
		GroupID:   group.ID,
		Name:      "Team Momiji",
		Status:    caredomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := teams.Create(ctx, team); err != nil {
		return err
	}

	if _, err := staff.Create(ctx, caredomain.Staff{
		ID:        uuid.New(),
		OfficeID:  office.ID,
		Name:      "Aoi Tanaka",
		Email:     "aoi@example.com",
		Phone:     "090-0000-0001",
		Status:    caredomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	for i, nickname := range []string{"hinata", "sora", "riku"} {
		if _, err := users.Create(ctx, caredomain.User{
			ID:         uuid.New(),
			OfficeID:   office.ID,
			GroupID:    group.ID,
			TeamID:     team.ID,
			Nickname:   nickname,
			PostalCode: "150-0002",
			Address:    "4-5-6 Ebisu, Shibuya",
			BirthDate:  "1948-04-12",
			Gender:     "unspecified",
			Rank:       i + 1,
			Status:     caredomain.StatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
	}

	merchants := merchantpersistence.NewPgMerchantRepository()
	shops := merchantpersistence.NewPgShopRepository()

	m := merchantdomain.Merchant{
		ID:        uuid.New(),
		Name:      "Yamada Trading",
		Email:     "desk@yamada.example.com",
		Phone:     "03-1111-2222",
		Status:    merchantdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := merchants.Create(ctx, m); err != nil {
		return err
	}
	if _, err := shops.Create(ctx, merchantdomain.Shop{
		ID:         uuid.New(),
		MerchantID: m.ID,
		Name:       "Yamada Ebisu",
		Address:    "7-8-9 Ebisu, Shibuya",
		Status:     merchantdomain.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return err
	}

	return nil
}
