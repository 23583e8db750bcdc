package nakama

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fish/internal/app"
)

type grpcStatusError interface {
	GRPCStatus() *status.Status
}

// toRuntimeError converts a verb error into the error Nakama returns to the
// client. Classified errors keep their gRPC code and message; anything else
// is logged and hidden behind an internal error.
func toRuntimeError(logger runtime.Logger, err error) error {
	var classified grpcStatusError
	if errors.As(err, &classified) {
		code := classified.GRPCStatus().Code()
		switch {
		case errorsmod.IsOf(err, app.ErrConflict):
			return runtime.NewError(app.ErrConflict.Error(), int(codes.Internal))
		case code != codes.Unknown && code != codes.Internal:
			return runtime.NewError(err.Error(), int(code))
		}
	}
	logger.Error("internal error: %v", err)
	return runtime.NewError("Internal error", int(codes.Internal))
}
