package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/numparse"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

func parseFloatArg(args []string, valueName string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := numparse.ParseFloat(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", valueName, err)
	}

	return value, nil
}

// parsePairs parses "R:T" arguments, resistance in ohms and temperature in °C.
func parsePairs(args []string) ([]thermistor.Observation, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no observations given, expected R:T pairs such as 10000:25")
	}

	obs := make([]thermistor.Observation, len(args))
	for i, arg := range args {
		rs, ts, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("observation %d: %q is not an R:T pair", i+1, arg)
		}
		r, err := numparse.ParseFloat(rs)
		if err != nil {
			return nil, fmt.Errorf("observation %d: resistance: %w", i+1, err)
		}
		t, err := numparse.ParseFloat(ts)
		if err != nil {
			return nil, fmt.Errorf("observation %d: temperature: %w", i+1, err)
		}
		obs[i] = thermistor.Observation{Resistance: r, Temperature: t}
	}
	return obs, nil
}

// parseLists pairs separate resistance and temperature lists by position.
func parseLists(resistances, temperatures []string) ([]thermistor.Observation, error) {
	rs, err := numparse.ParseFloats(resistances)
	if err != nil {
		return nil, fmt.Errorf("resistance: %w", err)
	}
	ts, err := numparse.ParseFloats(temperatures)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	return thermistor.NewObservations(rs, ts)
}

// parseModelFlag accepts an empty string, meaning the configured default.
func parseModelFlag(s string) (calibration.Model, error) {
	if s == "" {
		return "", nil
	}
	return calibration.ParseModel(s)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func formatObservation(o thermistor.Observation) string {
	return fmt.Sprintf("%g Ω @ %g °C", o.Resistance, o.Temperature)
}
