package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/gpmf-go/gpmf/gpmf"
)

func buildRecord(key string, code gpmf.TypeCode, elementSize uint8, repeat uint16, payload []byte) []byte {
	header := make([]byte, 8)
	copy(header[0:4], key)
	header[4] = byte(code)
	header[5] = elementSize
	binary.BigEndian.PutUint16(header[6:8], repeat)

	out := append(header, payload...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

func buildContainer(key string, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return buildRecord(key, gpmf.TypeNest, 1, uint16(len(payload)), payload)
}

func int32be(vals ...int32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], uint32(v))
	}
	return out
}

func sampleGPMFFile(t *testing.T) string {
	t.Helper()
	gpsStrm := buildContainer("STRM",
		buildRecord("STNM", gpmf.TypeString, 1, 3, []byte("GPS")),
		buildRecord("GPS5", gpmf.TypeInt32, 20, 1, int32be(441287283, 54277150, 833759, 9221, 10123)),
		buildRecord("SCAL", gpmf.TypeInt32, 4, 5, int32be(10000000, 10000000, 1000, 1000, 1000)))
	devc := buildContainer("DEVC",
		buildRecord("DVNM", gpmf.TypeString, 1, 6, []byte("Hero11")),
		gpsStrm)

	path := filepath.Join(t.TempDir(), "sample.gpmf")
	if err := os.WriteFile(path, devc, 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if code := run([]string{"bogus"}); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRun_InfoOnMissingFile(t *testing.T) {
	if code := run([]string{"info", "/nonexistent/file.gpmf"}); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRun_InfoOnValidFile(t *testing.T) {
	path := sampleGPMFFile(t)
	if code := run([]string{"info", path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestRun_GPSExtractWritesGPXFile(t *testing.T) {
	path := sampleGPMFFile(t)
	outPath := filepath.Join(t.TempDir(), "out.gpx")
	if code := run([]string{"gps-extract", "-o", outPath, path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected gpx output file: %v", err)
	}
}

func TestRun_GPSFirstOnValidFile(t *testing.T) {
	path := sampleGPMFFile(t)
	if code := run([]string{"gps-first", path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestRun_GyroExtractWithNoIMUData(t *testing.T) {
	path := sampleGPMFFile(t)
	if code := run([]string{"gyro-extract", path}); code != 1 {
		t.Errorf("expected exit code 1 (no gyro data), got %d", code)
	}
}

func TestRun_StatsOnValidFile(t *testing.T) {
	path := sampleGPMFFile(t)
	if code := run([]string{"stats", path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestRun_SampleTruncatesToRequestedDevices(t *testing.T) {
	path := sampleGPMFFile(t)
	outPath := filepath.Join(t.TempDir(), "sample_out.gpmf")
	if code := run([]string{"sample", "-o", outPath, "-devices", "1", path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected sample output file: %v", err)
	}
}

func TestRun_BatchDecodesMultipleFiles(t *testing.T) {
	path := sampleGPMFFile(t)
	if code := run([]string{"batch", path, path}); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}
