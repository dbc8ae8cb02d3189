package parse

import (
	"fmt"
	"strings"
)

// Machine type labels, including the Danish names the front end sends.
var machineTypes = map[string]string{
	"washer":       "Washer",
	"vaskemaskine": "Washer",
	"dryer":        "Dryer",
	"tørretumbler": "Dryer",
	"torretumbler": "Dryer",
}

// MachineType maps a user supplied machine type to "Washer" or "Dryer".
func MachineType(raw string) (string, error) {
	if t, ok := machineTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown machine type: %q", raw)
}
