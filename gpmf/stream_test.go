package gpmf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterStreamBlocks_JoinsSiblingsOfOneStream(t *testing.T) {
	gps := buildRecord("GPS5", TypeInt32, 20, 1, int32be(1, 2, 3, 4, 5))
	scal := scalRecord("SCAL", 10, 10, 1, 1, 1)
	stnm := buildRecord("STNM", TypeString, 1, 3, []byte("GPS"))
	strm := buildContainer("STRM", gps, scal, stnm)
	devc := buildContainer("DEVC", strm)

	var blocks []Block
	for b, err := range IterStreamBlocks(devc, []Key{KeyGPS5, KeyGPS9}, Options{}) {
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	require.Len(t, blocks, 1)
	require.Contains(t, blocks[0], KeyGPS5)
	require.Contains(t, blocks[0], KeySCAL)
	require.Contains(t, blocks[0], KeySTNM)
}

func TestIterStreamBlocks_SkipsStreamsWithoutRequestedKeys(t *testing.T) {
	strm := buildContainer("STRM", buildRecord("STNM", TypeString, 1, 4, []byte("none")))
	devc := buildContainer("DEVC", strm)

	var blocks []Block
	for b, err := range IterStreamBlocks(devc, []Key{KeyGPS5, KeyGPS9}, Options{}) {
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	require.Empty(t, blocks)
}

func TestIterStreamBlocks_DuplicateFourccLastWins(t *testing.T) {
	scal1 := scalRecord("SCAL", 1, 1, 1, 1, 1)
	scal2 := scalRecord("SCAL", 10, 10, 10, 10, 10)
	gps := buildRecord("GPS5", TypeInt32, 20, 1, int32be(1, 2, 3, 4, 5))
	strm := buildContainer("STRM", scal1, gps, scal2)
	devc := buildContainer("DEVC", strm)

	var block Block
	for b, err := range IterStreamBlocks(devc, []Key{KeyGPS5}, Options{}) {
		require.NoError(t, err)
		block = b
	}
	v, err := block[KeySCAL].Decode()
	require.NoError(t, err)
	require.Equal(t, []float64{10, 10, 10, 10, 10}, v)
}

func TestIterStreamBlocks_MultipleStreamsUnderOneDevice(t *testing.T) {
	gpsStrm := buildContainer("STRM",
		buildRecord("GPS5", TypeInt32, 20, 1, int32be(1, 2, 3, 4, 5)),
		scalRecord("SCAL", 1, 1, 1, 1, 1))
	gyroStrm := buildContainer("STRM",
		buildRecord("GYRO", TypeInt32, 12, 1, int32be(1, 2, 3)),
		scalRecord("SCAL", 1, 1, 1))
	devc := buildContainer("DEVC", gpsStrm, gyroStrm)

	var blocks []Block
	for b, err := range IterStreamBlocks(devc, []Key{KeyGPS5, KeyGYRO}, Options{}) {
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	require.Len(t, blocks, 2)
}
