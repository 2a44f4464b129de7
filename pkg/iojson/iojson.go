// Package iojson writes JSON to command line output streams and reads
// JSON input for commands that accept structured data.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the envelope written to stderr when a command fails in JSON
// output mode.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// jsonError hand-builds an error blob for the case where marshaling the
// Error struct itself failed. json.Marshal on the plain strings keeps
// the output valid regardless of their content.
func jsonError(msg string, jsonErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders an [Error] as indented JSON. If marshaling fails
// it falls back to a manually constructed blob carrying the original
// message and the marshal error, which indicates a bug in the caller's
// data map.
func MarshalError(msg string, data map[string]any) string {
	resp := Error{Message: msg, Data: data}

	bits, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteError writes an [Error] to stderr.
func WriteError(str string, data map[string]any) error {
	errstr := MarshalError(str, data)

	_, err := fmt.Fprintln(os.Stderr, errstr)
	return err
}

// WriteWith marshals obj as indented JSON to w. Marshal failures are
// reported as an error blob on ew instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.WriteWith", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
