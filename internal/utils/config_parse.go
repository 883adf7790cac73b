package utils

import (
	"strconv"
)

func GetConfigInt(key string, fallback int) int {
	value := GetConfig(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func GetConfigFloat(key string, fallback float64) float64 {
	value := GetConfig(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
