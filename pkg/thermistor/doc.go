// Package thermistor converts between resistance and temperature for NTC
// thermistors. It contains:
//
//   - Observation: a measured (resistance, temperature) pair
//   - SteinhartHart: the three-coefficient model, fit from exactly three pairs
//   - Beta: the two-parameter model, fit from two or more pairs
//   - Divider: conversion between ADC readings and resistance
//
// Everything here is a pure function of its inputs. Temperatures are degrees
// Celsius at the API and Kelvin inside the math.
package thermistor
