package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gpmf-go/gpmf/gpmf"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func sampleSession() gpmf.Session {
	return gpmf.Session{
		ID: uuid.New(),
		Devices: []gpmf.Device{
			{
				Name: "Hero11",
				ID:   1234,
				GPS: []gpmf.GPSRecord{
					{
						NPoints:   2,
						Latitude:  []float64{44.1, 44.2},
						Longitude: []float64{5.4, 5.5},
						Altitude:  []float64{800, 810},
						Speed2D:   []float64{1, 2},
						Speed3D:   []float64{1, 2},
						Fix:       3,
					},
				},
			},
		},
		RecordCounts: map[gpmf.Key]int{},
	}
}

func TestMigrate_CreatesSchema(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Exec("INSERT INTO sessions (id, source_path, device_count, total_gps_points, total_imu_points, created_at) VALUES (?, ?, 0, 0, 0, ?)",
		uuid.NewString(), "x.mp4", time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)
}

func TestSaveSession_PersistsDevicesAndPoints(t *testing.T) {
	s := openTestStore(t)
	session := sampleSession()

	require.NoError(t, s.SaveSession(session, "GOPR0001.MP4", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	summaries, err := s.ListSessions()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, session.ID, summaries[0].ID)
	require.Equal(t, "GOPR0001.MP4", summaries[0].SourcePath)
	require.Equal(t, 1, summaries[0].DeviceCount)
	require.Equal(t, 2, summaries[0].TotalGPSPoints)

	points, err := s.GPSPointsForSession(session.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "Hero11", points[0].DeviceName)
	require.InDelta(t, 44.1, points[0].Latitude, 1e-9)
	require.InDelta(t, 44.2, points[1].Latitude, 1e-9)
}

func TestListSessions_EmptyStoreReturnsNoRows(t *testing.T) {
	s := openTestStore(t)
	summaries, err := s.ListSessions()
	require.NoError(t, err)
	require.Empty(t, summaries)
}
