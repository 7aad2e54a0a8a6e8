package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap("op", nil))

	ve := Invalid(ReasonQuotaExceeded, "limit %d", 3)
	require.Same(t, ve, Wrap("create task", ve))
	require.True(t, IsReason(Wrap("create task", ve), ReasonQuotaExceeded))
	require.Equal(t, "limit 3", ve.Error())

	nf := Wrap("load task", ErrNotFound)
	require.ErrorIs(t, nf, ErrNotFound)
	require.Equal(t, "load task: not found", nf.Error())

	boom := errors.New("connection reset")
	wrapped := Wrap("update task", boom)
	var se *StoreError
	require.ErrorAs(t, wrapped, &se)
	require.Equal(t, "update task", se.Op)
	require.ErrorIs(t, wrapped, boom)

	require.Same(t, wrapped, Wrap("outer", wrapped))
}
