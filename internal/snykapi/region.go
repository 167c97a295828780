package snykapi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	regionUS01ValueConstant              Region = "SNYK-US-01"
	regionUS02ValueConstant              Region = "SNYK-US-02"
	regionEU01ValueConstant              Region = "SNYK-EU-01"
	regionAU01ValueConstant              Region = "SNYK-AU-01"
	regionUS01BaseURLConstant                   = "https://api.snyk.io"
	regionUS02BaseURLConstant                   = "https://api.us.snyk.io"
	regionEU01BaseURLConstant                   = "https://api.eu.snyk.io"
	regionAU01BaseURLConstant                   = "https://api.au.snyk.io"
	regionEmptyErrorMessageConstant             = "region must be provided"
	regionInvalidTemplateConstant               = "region %q is not supported"
)

// Region enumerates the supported Snyk deployment regions.
type Region string

// Supported Snyk regions.
const (
	RegionUS01 Region = regionUS01ValueConstant
	RegionUS02 Region = regionUS02ValueConstant
	RegionEU01 Region = regionEU01ValueConstant
	RegionAU01 Region = regionAU01ValueConstant
)

// DefaultRegion identifies the region used when no override is configured.
const DefaultRegion Region = RegionUS01

var regionBaseURLMapping = map[Region]string{
	RegionUS01: regionUS01BaseURLConstant,
	RegionUS02: regionUS02BaseURLConstant,
	RegionEU01: regionEU01BaseURLConstant,
	RegionAU01: regionAU01BaseURLConstant,
}

// ParseRegion normalizes textual region values.
func ParseRegion(regionValue string) (Region, error) {
	trimmedValue := strings.TrimSpace(regionValue)
	if len(trimmedValue) == 0 {
		return "", errors.New(regionEmptyErrorMessageConstant)
	}

	upperCasedValue := strings.ToUpper(trimmedValue)
	switch Region(upperCasedValue) {
	case RegionUS01, RegionUS02, RegionEU01, RegionAU01:
		return Region(upperCasedValue), nil
	default:
		return "", fmt.Errorf(regionInvalidTemplateConstant, regionValue)
	}
}

// BaseURL resolves the REST API base URL for the region.
func (region Region) BaseURL() string {
	baseURL, exists := regionBaseURLMapping[region]
	if !exists {
		return regionBaseURLMapping[DefaultRegion]
	}
	return baseURL
}

// RegionNames lists the supported region identifiers in declaration order.
func RegionNames() []string {
	return []string{
		string(RegionUS01),
		string(RegionUS02),
		string(RegionEU01),
		string(RegionAU01),
	}
}
