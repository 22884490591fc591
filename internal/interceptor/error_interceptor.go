package interceptor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalMessage = "internal server error"

// ErrorInterceptor maps application errors to gRPC status codes and turns
// handler panics into codes.Internal. Errors that already carry a status are
// returned as is.
func ErrorInterceptor(log observability.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", observability.String("panic", fmt.Sprintf("%v", r)), observability.String("method", info.FullMethod))
				resp, err = nil, status.Error(codes.Internal, internalMessage)
			}
		}()

		resp, err = handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return nil, err
		}

		return nil, toStatus(log, info.FullMethod, err)
	}
}

func toStatus(log observability.Logger, method string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperror.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		log.Error("unhandled error", observability.Err(err), observability.String("method", method))
		return status.Error(codes.Internal, internalMessage)
	}
}
