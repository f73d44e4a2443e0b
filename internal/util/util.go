// Package util provides small parsing helpers shared by the command
// handlers and the CLI.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePixelPair parses an "x,y" string into two ints. Whitespace
// around either component is tolerated; anything else is an error.
func ParsePixelPair(s string) (x, y int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x component in %q: %w", s, err)
	}
	y, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y component in %q: %w", s, err)
	}
	return x, y, nil
}

// ParseSize parses a "WxH" string into a width and height.
func ParseSize(s string) (w, h int, err error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"WxH\", got %q", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return w, h, nil
}
