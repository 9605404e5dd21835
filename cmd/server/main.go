package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ogurasousui/payslip-service/internal/adapters/delivery"
	"github.com/ogurasousui/payslip-service/internal/adapters/document"
	"github.com/ogurasousui/payslip-service/internal/adapters/grpc/handler"
	"github.com/ogurasousui/payslip-service/internal/adapters/repository/postgres"
	"github.com/ogurasousui/payslip-service/internal/core/employee"
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
	"github.com/ogurasousui/payslip-service/internal/platform/config"
	pg "github.com/ogurasousui/payslip-service/internal/platform/db/postgres"
	"github.com/ogurasousui/payslip-service/internal/platform/logger"
	"github.com/ogurasousui/payslip-service/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	session := pg.NewSession(dbPool)
	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(session), nil, nil)

	payrollSvc := payroll.NewService(payroll.Dependencies{
		Archive:   postgres.NewSalaryRecordRepository(session, nil),
		Directory: employeeSvc.Directory(),
		Renderer:  newRenderer(cfg.Document),
		Artifacts: document.NewLocalStore(cfg.Document.OutputDir),
		Viewer:    delivery.NewViewer(),
		Mailer: delivery.NewMailer(delivery.MailerConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			TLS:      cfg.SMTP.TLS,
			Timeout:  cfg.SMTP.Timeout,
		}, zl),
		Logger:    zl,
		Signature: cfg.Document.Signature,
	})

	if !cfg.SMTP.Enabled() {
		zl.Warn("smtp host is empty, sending payslips is disabled")
	}

	grpcServer := server.New(cfg.Server.ListenAddr, handler.NewPayslipGrpcHandler(payrollSvc, employeeSvc), zl)
	return grpcServer.Run(ctx)
}

func newRenderer(cfg config.DocumentConfig) payroll.Renderer {
	opts := document.Options{
		Label:  cfg.Label,
		Title:  cfg.Title,
		Footer: cfg.FooterLines,
	}
	if cfg.Format == config.DocumentFormatXLSX {
		return document.NewXLSXRenderer(opts, nil)
	}
	return document.NewPDFRenderer(opts, cfg.FontRegular, cfg.FontBold, nil)
}
