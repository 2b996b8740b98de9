package connect

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5/middleware"
)

const MetadataRequestID = "x-request-id"

type requestIDKey struct{}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return middleware.GetReqID(ctx)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ServerRequestIDInterceptor puts the caller's x-request-id header into the
// context. Without the header the id assigned by chi's RequestID middleware is
// used.
func ServerRequestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := req.Header().Get(MetadataRequestID); id != "" {
				ctx = WithRequestID(ctx, id)
			}
			return next(ctx, req)
		}
	}
}

// ClientRequestIDInterceptor forwards the request id in ctx to the server.
func ClientRequestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := GetRequestID(ctx); id != "" {
				req.Header().Set(MetadataRequestID, id)
			}
			return next(ctx, req)
		}
	}
}

func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				slog.String("procedure", req.Spec().Procedure),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", GetRequestID(ctx)),
			}
			if err != nil {
				level := slog.LevelWarn
				if code := connect.CodeOf(err); code == connect.CodeInternal || code == connect.CodeUnavailable {
					level = slog.LevelError
				}
				logger.Log(ctx, level, "RPC failed", append(attrs,
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()),
				)...)
			} else {
				logger.InfoContext(ctx, "RPC completed", attrs...)
			}

			return resp, err
		}
	}
}
