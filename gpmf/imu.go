package gpmf

import "fmt"

// IMURecord is the typed, scaled record produced by MaterializeIMU.
type IMURecord struct {
	Description string
	Timestamp   string
	Units       string
	NPoints     int

	X, Y, Z []float64

	// Temperature is TMPC's value if present, scaled by SCAL's fourth
	// entry when one exists, raw otherwise. HasTemperature distinguishes
	// "absent" from a genuine zero reading.
	Temperature    float64
	HasTemperature bool
}

const imuColumns = 3

var imuDefaultUnits = map[Key]string{
	KeyGYRO: "rad/s",
	KeyACCL: "m/s²",
}

// MaterializeIMU is symmetric to MaterializeGPS: source is GYRO or ACCL,
// shape is (N, 3), axes assigned in column order (x, y, z).
func MaterializeIMU(block Block) (IMURecord, error) {
	src, ok := Key(""), false
	if _, present := block[KeyGYRO]; present {
		src, ok = KeyGYRO, true
	} else if _, present := block[KeyACCL]; present {
		src, ok = KeyACCL, true
	}
	if !ok {
		return IMURecord{}, ErrNoIMU
	}

	rawVal, err := block[src].Decode()
	if err != nil {
		return IMURecord{}, fmt.Errorf("gpmf: decoding %s: %w", src, err)
	}
	raw, err := toMatrix(rawVal)
	if err != nil {
		return IMURecord{}, err
	}

	scalRec, ok := block[KeySCAL]
	if !ok {
		return IMURecord{}, ErrMissingScale
	}
	scalVal, err := scalRec.Decode()
	if err != nil {
		return IMURecord{}, fmt.Errorf("gpmf: decoding SCAL: %w", err)
	}
	scal, ok := scalVal.([]float64)
	if !ok {
		return IMURecord{}, fmt.Errorf("%w: SCAL decoded as %T, not a flat vector", ErrShapeMismatch, scalVal)
	}

	n := len(raw)
	// A SCAL one entry longer than the three data columns carries TMPC's
	// scale in its fourth entry.
	if n > 0 && len(raw[0]) != len(scal) && !(len(raw[0]) == imuColumns && len(scal) == imuColumns+1) {
		return IMURecord{}, fmt.Errorf("%w: %s width %d != SCAL length %d", ErrShapeMismatch, src, len(raw[0]), len(scal))
	}
	if len(scal) < imuColumns {
		return IMURecord{}, fmt.Errorf("%w: SCAL length %d smaller than %d required IMU columns", ErrShapeMismatch, len(scal), imuColumns)
	}

	rec := IMURecord{
		Description: optionalString(block, KeySTNM, src.Name()),
		Timestamp:   optionalString(block, KeyGPSU, ""),
		Units:       optionalString(block, KeyUNIT, imuDefaultUnits[src]),
		NPoints:     n,
		X:           make([]float64, n),
		Y:           make([]float64, n),
		Z:           make([]float64, n),
	}

	for i, row := range raw {
		rec.X[i] = row[0] / scal[0]
		rec.Y[i] = row[1] / scal[1]
		rec.Z[i] = row[2] / scal[2]
	}

	if tmpcRec, present := block[KeyTMPC]; present {
		v, err := tmpcRec.Decode()
		if err == nil {
			raw := scalarOf(v)
			if len(scal) >= 4 {
				rec.Temperature = raw / scal[3]
			} else {
				rec.Temperature = raw
			}
			rec.HasTemperature = true
		}
	}

	return rec, nil
}

func scalarOf(v any) float64 {
	switch x := v.(type) {
	case []float64:
		if len(x) > 0 {
			return x[0]
		}
	case [][]float64:
		if len(x) > 0 && len(x[0]) > 0 {
			return x[0][0]
		}
	}
	return 0
}
