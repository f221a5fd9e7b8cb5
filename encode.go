package moneymarket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// EncodeSnapshot writes the snapshot as indented JSON.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	return nil
}

// DecodeActions reads one action per line, in the text form accepted by
// ParseAction or as a JSON object. Blank lines and lines starting with '#'
// are ignored.
func DecodeActions(r io.Reader) ([]Action, error) {
	var actions []Action
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var a Action
		var err error
		if strings.HasPrefix(line, "{") {
			err = json.Unmarshal([]byte(line), &a)
		} else {
			a, err = ParseAction(line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		actions = append(actions, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read actions: %w", err)
	}
	return actions, nil
}

// EncodeActions writes the actions in their canonical text form, one per line,
// as read back by DecodeActions.
func EncodeActions(w io.Writer, actions []Action) error {
	bw := bufio.NewWriter(w)
	for _, a := range actions {
		a.Command = CommandType(strings.ToLower(string(a.Command)))
		if _, err := fmt.Fprintln(bw, a); err != nil {
			return fmt.Errorf("cannot encode actions: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot encode actions: %w", err)
	}
	return nil
}
