package apperrors

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "invalid argument", err: errors.Wrap(ErrInvalidArgument, "same token"), want: KindInvalidArgument},
		{name: "invalid amount", err: errors.Wrap(ErrInvalidAmount, "units.ToFixedPoint"), want: KindInvalidAmount},
		{name: "quote", err: errors.Wrap(ErrQuoteUnavailable, "short result"), want: KindQuoteUnavailable},
		{name: "approval", err: ErrApprovalFailed, want: KindApprovalFailed},
		{name: "submission", err: errors.Wrap(ErrSwapSubmissionFailed, "nonce too low"), want: KindSwapSubmissionFailed},
		{name: "not confirmed", err: ErrSwapNotConfirmed, want: KindSwapNotConfirmed},
		{name: "configuration", err: errors.Wrap(ErrConfiguration, "rpc_url"), want: KindConfiguration},
		{name: "canceled", err: errors.Wrap(context.Canceled, "wait"), want: KindCanceled},
		{name: "unknown", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
