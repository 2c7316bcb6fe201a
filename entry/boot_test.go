package entry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeBootRejectsEmptyPayload(t *testing.T) {
	_, err := decodeBoot(nil, Origin{})
	require.Error(t, err)
}

func TestReasonString(t *testing.T) {
	require.Equal(t, "wdt", ReasonWDT.String())
	require.Equal(t, "ext-sys-reset", ReasonExtSysReset.String())
	require.Contains(t, Reason(200).String(), "reason")
}
