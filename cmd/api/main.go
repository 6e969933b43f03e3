package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/sitework-erp/labour-ledger-go/internal/config"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	appHTTP "github.com/sitework-erp/labour-ledger-go/internal/handler/http"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/lock"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/memory"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/postgresql"
	"github.com/sitework-erp/labour-ledger-go/internal/service/advance"
	attendanceService "github.com/sitework-erp/labour-ledger-go/internal/service/attendance"
	payrollService "github.com/sitework-erp/labour-ledger-go/internal/service/payroll"
	penaltyService "github.com/sitework-erp/labour-ledger-go/internal/service/penalty"
	reportService "github.com/sitework-erp/labour-ledger-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})).With(
		slog.String("app", "labour-ledger"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx := context.Background()

	tx, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open store", "store", cfg.App.Store, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	locker := lock.NewNoop()
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable at startup; payroll locks will fall back to the database", "error", err)
		}
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL)
	}

	recorder := audit.NewLogRecorder(logger)
	calendar := common.Calendar{Location: cfg.Payroll.Location}

	attendanceSvc := attendanceService.NewAttendanceService(tx, recorder, calendar, cfg.Payroll.ShiftHours)
	penaltySvc := penaltyService.NewPenaltyService(tx, recorder, calendar)
	payrollSvc := payrollService.NewPayrollService(
		tx,
		attendanceSvc,
		penaltySvc,
		advance.NewEngine(),
		locker,
		recorder,
		calendar,
		payrollService.Rates{
			ShiftHours:         cfg.Payroll.ShiftHours,
			OvertimeMultiplier: cfg.Payroll.OvertimeMultiplier,
		},
	)
	reportSvc := reportService.NewReportService(tx)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Penalty:    appHTTP.NewPenaltyHandler(penaltySvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
		},
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.LogLevel(),
		},
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "addr", "http://localhost"+port, "store", cfg.App.Store, "timezone", cfg.Payroll.Timezone)
	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (uow.Transactor, func(), error) {
	switch cfg.App.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		if cfg.App.SeedWorkersFile != "" {
			f, err := os.Open(cfg.App.SeedWorkersFile)
			if err != nil {
				return nil, nil, fmt.Errorf("open worker seed: %w", err)
			}
			defer f.Close()
			n, err := store.LoadWorkers(f)
			if err != nil {
				return nil, nil, err
			}
			slog.Info("Seeded workers", "count", n)
		}
		slog.Warn("Using in-memory store; ledger data is lost on restart")
		return store, func() {}, nil

	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return postgresql.NewTransactor(db, cfg.Database.TxMaxAttempts), db.Close, nil
	}
}
