package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/config"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/factory-payroll/internal/handler/http"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/lock"
	"github.com/cmlabs-hris/factory-payroll/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/factory-payroll/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisEnabled() {
		redisLocker, err := lock.NewRedisLocker(lock.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Payroll.LockTTL)
		if err != nil {
			slog.Error("Error connecting to Redis", "error", err)
			os.Exit(1)
		}
		defer redisLocker.Close()
		locker = redisLocker
		slog.Info("Payroll lock backed by Redis", "host", cfg.Redis.Host)
	}

	repos := payrollService.Repositories{
		Employees:  postgresql.NewEmployeeRepository(db),
		Attendance: postgresql.NewAttendanceRepository(db),
		Calendar:   postgresql.NewCalendarRepository(db),
		Leave:      postgresql.NewLeaveRepository(db),
		Salaries:   postgresql.NewSalaryRepository(db),
		Ledger:     postgresql.NewLedgerRepository(db),
	}

	payrollSvc := payrollService.NewPayrollService(postgresql.NewTransactor(db), repos, locker, payrollService.Options{
		Policy: payroll.Policy{
			SpecialDepartments:    cfg.Payroll.SpecialDepartments,
			SpecialSupervisors:    cfg.Payroll.SpecialSupervisors,
			FullSalaryEmployeeIDs: cfg.Payroll.FullSalaryEmployeeIDs,
		},
		Workers:     cfg.Payroll.Workers,
		LockTimeout: cfg.Payroll.LockTimeout,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg.App, JWTService, payrollHandler, attendanceHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	if cfg.Payroll.AutoRun {
		cron.NewPayrollJobs(payrollSvc).RegisterJobs(scheduler)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
