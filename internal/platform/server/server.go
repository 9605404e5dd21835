package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/ogurasousui/payslip-service/internal/adapters/grpc/payslipv1"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// ロギング用の unary interceptor は常に先頭に入ります。
func New(listenAddr string, payslip payslipv1.PayslipServiceServer, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)
	payslipv1.RegisterPayslipServiceServer(srv, payslip)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられた listener で待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.grpcServer.GracefulStop()
	}()

	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
