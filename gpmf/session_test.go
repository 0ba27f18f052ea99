package gpmf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFullDevice(t *testing.T) []byte {
	t.Helper()
	gpsStrm := buildContainer("STRM",
		buildRecord("STNM", TypeString, 1, 3, []byte("GPS")),
		buildRecord("GPS5", TypeInt32, 20, 1, int32be(441287283, 54277150, 833759, 9221, 10123)),
		scalRecord("SCAL", 10000000, 10000000, 1000, 1000, 1000))
	gyroStrm := buildContainer("STRM",
		buildRecord("GYRO", TypeInt32, 12, 2, append(int32be(100, 50, -25), int32be(102, 48, -26)...)),
		scalRecord("SCAL", 1, 1, 1))
	devc := buildContainer("DEVC",
		buildRecord("DVNM", TypeString, 1, 6, []byte("Hero11")),
		gpsStrm, gyroStrm)
	return devc
}

func TestParseSession_JoinsGPSAndIMUPerDevice(t *testing.T) {
	buf := buildFullDevice(t)
	session, err := ParseSession(buf, Options{})
	require.NoError(t, err)
	require.Len(t, session.Devices, 1)

	dev := session.Devices[0]
	require.Equal(t, "Hero11", dev.Name)
	require.Len(t, dev.GPS, 1)
	require.Len(t, dev.IMU, 1)
	require.Equal(t, 1, dev.GPS[0].NPoints)
	require.Equal(t, 2, dev.IMU[0].NPoints)
}

func TestParseSession_AssignsAFreshIDPerCall(t *testing.T) {
	buf := buildFullDevice(t)
	s1, err := ParseSession(buf, Options{})
	require.NoError(t, err)
	s2, err := ParseSession(buf, Options{})
	require.NoError(t, err)
	require.NotEqual(t, s1.ID, s2.ID)
}

func TestParseSession_CountsEveryFourccEncountered(t *testing.T) {
	buf := buildFullDevice(t)
	session, err := ParseSession(buf, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, session.RecordCounts[KeyDEVC])
	require.Equal(t, 2, session.RecordCounts[KeySTRM])
	require.Equal(t, 1, session.RecordCounts[KeyGPS5])
	require.Equal(t, 2, session.RecordCounts[KeySCAL])
}

func TestParseSession_TotalsAcrossDevices(t *testing.T) {
	buf := append(buildFullDevice(t), buildFullDevice(t)...)
	session, err := ParseSession(buf, Options{})
	require.NoError(t, err)
	require.Len(t, session.Devices, 2)
	require.Equal(t, 2, session.TotalGPSPoints())
	require.Equal(t, 4, session.TotalIMUPoints())
}

func TestPrintSessionInfo_IncludesDeviceAndCounts(t *testing.T) {
	buf := buildFullDevice(t)
	session, err := ParseSession(buf, Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	PrintSessionInfo(&out, session)
	s := out.String()
	require.Contains(t, s, "GPMF Session")
	require.Contains(t, s, "Hero11")
	require.Contains(t, s, "GPS data")
	require.Contains(t, s, "IMU data")
}
