package connect

import (
	"errors"
	"strconv"

	"connectrpc.com/connect"

	"github.com/renzotjpro/ecommerce-support/internal/domain"
)

// Error metadata carried alongside resource_exhausted responses.
const (
	MetaAvailable = "x-available-quantity"
	MetaRequested = "x-requested-quantity"
)

func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)

	case domain.KindConflict:
		if errors.Is(err, domain.ErrReservationAlreadyReleased) {
			return connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return connect.NewError(connect.CodeAlreadyExists, err)

	case domain.KindInvalidArgument:
		return connect.NewError(connect.CodeInvalidArgument, err)

	case domain.KindInsufficientStock:
		connectErr := connect.NewError(connect.CodeResourceExhausted, err)
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			connectErr.Meta().Set(MetaAvailable, strconv.FormatInt(insufficient.Available, 10))
			connectErr.Meta().Set(MetaRequested, strconv.FormatInt(insufficient.Requested, 10))
		}
		return connectErr

	case domain.KindStoreUnavailable:
		return connect.NewError(connect.CodeUnavailable, errors.New("inventory store unavailable"))

	default:
		return connect.NewError(connect.CodeInternal, errors.New("internal server error"))
	}
}
