package grpc_api

import (
	"context"
	"fmt"
	"net"
	"time"

	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// GRPCServer hosts ForecastService.
type GRPCServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Service *ForecastService
	server  *grpc.Server
}

// -----------------------------------------------------------------------------

func NewGRPCServer(cfg *models.MConfig, runner ForecastRunner) *GRPCServer {
	s := &GRPCServer{
		Config:  cfg,
		Logger:  logger.NewLogger(cfg, "GRPCServer"),
		Service: NewForecastService(cfg, runner),
	}
	s.server = grpc.NewServer(grpc.UnaryInterceptor(s.logCalls))
	s.server.RegisterService(&ServiceDesc, s.Service)
	return s
}

// -----------------------------------------------------------------------------

func (s *GRPCServer) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		s.Logger.Info("%s -> %s (%s)", info.FullMethod, status.Code(err), time.Since(start))
	} else {
		s.Logger.Debug("%s -> OK (%s)", info.FullMethod, time.Since(start))
	}
	return resp, err
}

// -----------------------------------------------------------------------------

// Start listens on the configured address and blocks until Stop.
func (s *GRPCServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.GrpcHost, s.Config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.Logger.Info("Starting gRPC server on %s", addr)
	return s.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// -----------------------------------------------------------------------------

func (s *GRPCServer) Stop() {
	s.server.GracefulStop()
}
