package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"
	"inventory-ledger/pkg/database"
	"inventory-ledger/pkg/jwt"
	applog "inventory-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inventory ledger maintenance and dry runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd(), seedUnitsCmd(), convertCmd(), availabilityCmd(), tokenCmd())
	return rootCmd
}

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := applog.New(cfg.LogLevel, "console")
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(database.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger schema.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			e.log.Info("schema migrated", zap.String("driver", e.cfg.DBDriver))
			return nil
		},
	}
}

func seedUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-units",
		Short: "Insert the standard unit catalog. Existing units are left alone.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			n, err := repository.SeedUnits(e.db)
			if err != nil {
				return err
			}
			e.log.Info("units seeded", zap.Int64("inserted", n))
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var itemID string
	cmd := &cobra.Command{
		Use:     "convert QUANTITY FROM TO",
		Short:   "Convert a quantity between units, optionally for an item.",
		Example: "  ledgerctl convert 2 cup g --item 6f1c...",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[0], err)
			}
			e, err := open()
			if err != nil {
				return err
			}
			units := service.NewUnitService(repository.NewUnitRepo(e.db), repository.NewItemRepo(e.db), repository.NewLotRepo(e.db), e.log, nil)
			out, err := units.Convert(cmd.Context(), service.ConvertRequest{Quantity: qty, From: args[1], To: args[2], ItemID: itemID})
			if err != nil {
				return fmt.Errorf("%s: %w", service.KindOf(err), err)
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "item id whose density and mappings apply")
	return cmd
}

// parseRequest reads ITEM:QUANTITY:UNIT.
func parseRequest(s string) (service.PlanRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return service.PlanRequest{}, fmt.Errorf("request %q is not ITEM:QUANTITY:UNIT", s)
	}
	qty, err := decimal.NewFromString(parts[1])
	if err != nil {
		return service.PlanRequest{}, fmt.Errorf("request %q: invalid quantity: %w", s, err)
	}
	return service.PlanRequest{ItemID: parts[0], Quantity: qty, Unit: parts[2]}, nil
}

func availabilityCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "availability ITEM:QUANTITY:UNIT...",
		Short: "Dry-run a deduction and print the result as JSON. Nothing is written.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]service.PlanRequest, 0, len(args))
			for _, a := range args {
				r, err := parseRequest(a)
				if err != nil {
					return err
				}
				reqs = append(reqs, r)
			}
			e, err := open()
			if err != nil {
				return err
			}
			checker := service.NewAvailabilityChecker(e.db,
				repository.NewUnitRepo(e.db),
				repository.NewItemRepo(e.db),
				repository.NewLotRepo(e.db),
				e.cfg.Ledger, e.log, nil)
			if preview {
				plans, err := checker.Plan(cmd.Context(), reqs)
				if err != nil {
					return err
				}
				return printJSON(cmd, plans)
			}
			results, err := checker.CheckAvailability(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().BoolVar(&preview, "plan", false, "print the full plans with lot lines")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		name       string
		privileges []string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token ACTOR_ID",
		Short: "Issue an API token for an actor.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := jwt.GenerateToken(jwt.SecretKey(cfg.JWTSecret), args[0], name, privileges, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringSliceVar(&privileges, "privilege", middleware.AllPrivileges, "granted privileges")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
