package util

import (
	"bytes"
	"encoding/json"
)

// CompactJson strips insignificant whitespace so that equal JSON values
// written differently map to the same string.
func CompactJson(raw []byte) (string, error) {
	buf := new(bytes.Buffer)
	if err := json.Compact(buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func CopyIntSlice(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func CopyFloatSlice(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
