package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/hanamiya/console/modules/care/infrastructure/persistence"
	"github.com/hanamiya/console/modules/care/presentation"
	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/configuration"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/logging"
)

// exportSheet is one workbook sheet: the rows are redacted with the
// same visibility policy the list endpoints apply, so an export can
// never leak more than the requesting role's screen would.
type exportSheet struct {
	name    string
	columns []listkit.Column
	policy  *listkit.VisibilityPolicy
	rows    func(ctx context.Context) ([]listkit.Row, error)
}

func newExportCmd() *cobra.Command {
	var (
		out      string
		roleName string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export care entities to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			if !conf.Database.Enabled {
				return fmt.Errorf("export requires DB_ENABLED=true")
			}
			role := listkit.ParseRole(roleName)
			if role == listkit.RoleUnknown {
				return fmt.Errorf("unknown role %q", roleName)
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			if err != nil {
				return fmt.Errorf("failed to create database pool: %w", err)
			}
			defer pool.Close()
			ctx = composables.WithPool(ctx, pool)

			sheets := careSheets()
			if err := writeWorkbook(ctx, out, role, sheets); err != nil {
				return err
			}
			logging.ConsoleLogger(conf.LogrusLogLevel()).
				Infof("exported %d sheets to %s as %s", len(sheets), out, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "console-export.xlsx", "output file path")
	cmd.Flags().StringVar(&roleName, "role", listkit.RoleSystemAdmin.String(), "role whose visibility applies to the export")
	return cmd
}

func careSheets() []exportSheet {
	offices := persistence.NewPgOfficeRepository()
	groups := persistence.NewPgGroupRepository()
	users := persistence.NewPgUserRepository()

	return []exportSheet{
		{
			name:    "Offices",
			columns: presentation.OfficeColumns(),
			policy:  presentation.OfficePolicy(),
			rows: func(ctx context.Context) ([]listkit.Row, error) {
				list, err := offices.List(ctx, listkit.SearchParams{})
				if err != nil {
					return nil, err
				}
				out := make([]listkit.Row, 0, len(list))
				for _, o := range list {
					out = append(out, presentation.PresentOffice(o))
				}
				return out, nil
			},
		},
		{
			name:    "Groups",
			columns: presentation.GroupColumns(),
			policy:  presentation.GroupPolicy(),
			rows: func(ctx context.Context) ([]listkit.Row, error) {
				list, err := groups.List(ctx, listkit.SearchParams{})
				if err != nil {
					return nil, err
				}
				out := make([]listkit.Row, 0, len(list))
				for _, g := range list {
					out = append(out, presentation.PresentGroup(g))
				}
				return out, nil
			},
		},
		{
			name:    "Users",
			columns: presentation.UserColumns(),
			policy:  presentation.UserPolicy(),
			rows: func(ctx context.Context) ([]listkit.Row, error) {
				list, err := users.List(ctx, listkit.SearchParams{})
				if err != nil {
					return nil, err
				}
				out := make([]listkit.Row, 0, len(list))
				for _, u := range list {
					out = append(out, presentation.PresentUser(u))
				}
				return out, nil
			},
		},
	}
}

func writeWorkbook(ctx context.Context, path string, role listkit.Role, sheets []exportSheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			f.DeleteSheet("Sheet1")
		}

		columns := sheet.policy.VisibleColumns(role, sheet.columns)
		header := make([]any, 0, len(columns))
		for _, col := range columns {
			header = append(header, col.Label)
		}
		if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
			return err
		}

		rows, err := sheet.rows(ctx)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", sheet.name, err)
		}
		for n, row := range rows {
			redacted := sheet.policy.Redact(role, row)
			cells := make([]any, 0, len(columns))
			for _, col := range columns {
				cells = append(cells, redacted[col.Key])
			}
			cell := fmt.Sprintf("A%d", n+2)
			if err := f.SetSheetRow(sheet.name, cell, &cells); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
