package protocol

import (
	"regexp"

	"github.com/c360/signalctl/errors"
)

// Identifier patterns fixed by the standard. All are fixed-width decimal
// strings; width encodes the administrative hierarchy.
var (
	regionIDPattern     = regexp.MustCompile(`^[0-9]{9}$`)
	subRegionIDPattern  = regexp.MustCompile(`^[0-9]{11}$`)
	crossIDPattern      = regexp.MustCompile(`^[0-9]{14}$`)
	routeIDPattern      = regexp.MustCompile(`^[0-9]{9}$`)
	controllerIDPattern = regexp.MustCompile(`^[0-9]{18}$`)
)

// IsValidRegionID reports whether id is a well-formed 9-digit region id.
func IsValidRegionID(id string) bool { return regionIDPattern.MatchString(id) }

// IsValidSubRegionID reports whether id is a well-formed 11-digit sub-region id.
func IsValidSubRegionID(id string) bool { return subRegionIDPattern.MatchString(id) }

// IsValidCrossID reports whether id is a well-formed 14-digit intersection id.
func IsValidCrossID(id string) bool { return crossIDPattern.MatchString(id) }

// IsValidRouteID reports whether id is a well-formed 9-digit route id.
func IsValidRouteID(id string) bool { return routeIDPattern.MatchString(id) }

// IsValidSignalControllerID reports whether id is a well-formed 18-digit
// signal controller id.
func IsValidSignalControllerID(id string) bool { return controllerIDPattern.MatchString(id) }

// CheckCrossID returns a field-named validation error unless id is a
// well-formed intersection id.
func CheckCrossID(id string) error {
	if !IsValidCrossID(id) {
		return errors.Validation("crossId", "must be 14 decimal digits, got %q", id)
	}
	return nil
}

// CheckRouteID returns a field-named validation error unless id is a
// well-formed route id.
func CheckRouteID(id string) error {
	if !IsValidRouteID(id) {
		return errors.Validation("routeId", "must be 9 decimal digits, got %q", id)
	}
	return nil
}

// CheckRegionID returns a field-named validation error unless id is a
// well-formed region id.
func CheckRegionID(id string) error {
	if !IsValidRegionID(id) {
		return errors.Validation("regionId", "must be 9 decimal digits, got %q", id)
	}
	return nil
}

// CheckSubRegionID returns a field-named validation error unless id is a
// well-formed sub-region id.
func CheckSubRegionID(id string) error {
	if !IsValidSubRegionID(id) {
		return errors.Validation("subRegionId", "must be 11 decimal digits, got %q", id)
	}
	return nil
}

// CheckSignalControllerID returns a field-named validation error unless id is
// a well-formed signal controller id.
func CheckSignalControllerID(id string) error {
	if !IsValidSignalControllerID(id) {
		return errors.Validation("signalControllerId", "must be 18 decimal digits, got %q", id)
	}
	return nil
}
