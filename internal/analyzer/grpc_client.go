package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pb "github.com/progressmethod/commitment-coach/internal/proto/analyzer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

var (
	errConnectionShutdown       = errors.New("connection shutdown")
	errConnectionStateUnchanged = errors.New("connection state did not change")
)

// GrpcClient provides a gRPC client to the Python analyzer service.
type GrpcClient struct {
	conn   *grpc.ClientConn
	client pb.AnalyzerServiceClient
	addr   string
	logger *slog.Logger
}

// GrpcClientConfig holds configuration for the gRPC client.
type GrpcClientConfig struct {
	Address          string
	ConnectTimeout   time.Duration
	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
}

// DefaultGrpcClientConfig returns default configuration.
func DefaultGrpcClientConfig() GrpcClientConfig {
	return GrpcClientConfig{
		Address:          "localhost:50051",
		ConnectTimeout:   5 * time.Second,
		KeepaliveTime:    2 * time.Minute,
		KeepaliveTimeout: 10 * time.Second,
	}
}

// NewGrpcClient creates a new gRPC client to the analyzer service and
// forces a connection attempt so bad endpoints fail at startup.
func NewGrpcClient(addr string, logger *slog.Logger) (*GrpcClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := DefaultGrpcClientConfig()
	if addr != "" {
		cfg.Address = addr
	}

	kacp := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: false,
	}

	// Build client connection (no network I/O yet).
	conn, err := grpc.NewClient(cfg.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to analyzer at %s: %w", cfg.Address, err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := waitForReady(connectCtx, conn); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close gRPC connection after readiness failure", "error", closeErr)
		}
		return nil, fmt.Errorf("analyzer at %s not ready: %w", cfg.Address, err)
	}

	logger.Info("Connected to analyzer service", "address", cfg.Address)

	return &GrpcClient{
		conn:   conn,
		client: pb.NewAnalyzerServiceClient(conn),
		addr:   cfg.Address,
		logger: logger,
	}, nil
}

// NewGrpcClientWithService creates a GrpcClient with an injected service
// implementation. Used for testing without a real gRPC connection.
func NewGrpcClientWithService(svc pb.AnalyzerServiceClient, logger *slog.Logger) *GrpcClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrpcClient{client: svc, logger: logger}
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Idle:
			conn.Connect()
		case connectivity.Shutdown:
			return errConnectionShutdown
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w from %s", errConnectionStateUnchanged, state)
		}
	}
}

// Analyze scores a commitment via the analyzer service. Deadline overruns
// map to ErrTimeout, everything else to ErrAnalysis, so callers branch on
// the two fail-open classes without inspecting gRPC internals.
func (c *GrpcClient) Analyze(ctx context.Context, userID, text string) (Result, error) {
	resp, err := c.client.Analyze(ctx, &pb.AnalyzeRequest{
		Text:   text,
		UserId: userID,
	})
	if err != nil {
		if isTimeout(ctx, err) {
			c.logger.Warn("Analyze timed out", "user_id", userID, "error", err)
			return Result{}, fmt.Errorf("%w: %s", ErrTimeout, err)
		}
		c.logger.Warn("Analyze failed", "user_id", userID, "error", err)
		return Result{}, fmt.Errorf("%w: %s", ErrAnalysis, err)
	}

	score := resp.GetScore()
	if score < 0 || score > 10 {
		c.logger.Warn("Analyze returned out-of-range score", "user_id", userID, "score", score)
		return Result{}, fmt.Errorf("%w: score %v out of range", ErrAnalysis, score)
	}

	return Result{
		Score:      score,
		Suggestion: resp.GetSuggestion(),
		Feedback:   resp.GetFeedback(),
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	return status.Code(err) == codes.DeadlineExceeded
}

// Healthy reports whether the analyzer answers its health check.
func (c *GrpcClient) Healthy(ctx context.Context) bool {
	resp, err := c.client.Health(ctx, &pb.HealthRequest{})
	if err != nil {
		c.logger.Warn("Analyzer health check failed", "error", err)
		return false
	}
	return resp.GetOk()
}

// Close closes the gRPC connection.
func (c *GrpcClient) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("failed to close gRPC connection", "error", err)
		}
	}
}

var _ Scorer = (*GrpcClient)(nil)
