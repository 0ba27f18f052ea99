package gpmf

import "fmt"

// toMatrix normalizes a decoded numeric value to [][]float64: a
// single-column matrix (one row per element) when DecodePayload returned the
// flat []float64 shape (cols == 1 case), or the value itself when
// DecodePayload already reshaped it.
func toMatrix(v any) ([][]float64, error) {
	switch x := v.(type) {
	case [][]float64:
		return x, nil
	case []float64:
		rows := make([][]float64, len(x))
		for i, f := range x {
			rows[i] = []float64{f}
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("gpmf: expected numeric matrix, got %T", v)
	}
}

// optionalString decodes block[key] as a string, returning fallback if the
// key is absent.
func optionalString(block Block, key Key, fallback string) string {
	rec, ok := block[key]
	if !ok {
		return fallback
	}
	v, err := rec.Decode()
	if err != nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// optionalFloat decodes block[key] as a lone numeric sample, returning
// fallback if the key is absent or decodes to something unexpected.
func optionalFloat(block Block, key Key, fallback float64) float64 {
	rec, ok := block[key]
	if !ok {
		return fallback
	}
	v, err := rec.Decode()
	if err != nil {
		return fallback
	}
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
	return fallback
}

// optionalInt is optionalFloat truncated to int, for GPSF's fix code.
func optionalInt(block Block, key Key, fallback int) int {
	return int(optionalFloat(block, key, float64(fallback)))
}
