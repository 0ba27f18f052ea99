package gpmf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateSample_TruncatesToRequestedDeviceCount(t *testing.T) {
	one := buildContainer("DEVC", buildRecord("DVNM", TypeString, 1, 1, []byte("A")))
	two := buildContainer("DEVC", buildRecord("DVNM", TypeString, 1, 1, []byte("B")))
	three := buildContainer("DEVC", buildRecord("DVNM", TypeString, 1, 1, []byte("C")))
	buf := append(append(one, two...), three...)

	sample, devices, err := CreateSample(buf, 2)
	require.NoError(t, err)
	require.Equal(t, 2, devices)
	require.Less(t, len(sample), len(buf))

	session, err := ParseSession(sample, Options{})
	require.NoError(t, err)
	require.Len(t, session.Devices, 2)
}

func TestCreateSample_FewerDevicesThanRequestedKeepsAll(t *testing.T) {
	one := buildContainer("DEVC", buildRecord("DVNM", TypeString, 1, 1, []byte("A")))
	sample, devices, err := CreateSample(one, 5)
	require.NoError(t, err)
	require.Equal(t, 1, devices)
	require.Equal(t, one, sample)
}

func TestCreateSample_RejectsNonPositiveCount(t *testing.T) {
	_, _, err := CreateSample(nil, 0)
	require.Error(t, err)
}
