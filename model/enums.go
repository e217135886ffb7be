// Package model defines the closed payload vocabulary of the protocol: the
// configuration and runtime objects handlers query, the command objects they
// execute, and the result DTOs responses carry. Every type implements
// protocol.Object via its wire element name; the codec registry in
// protocol/codec is the single place new payload types are registered.
package model

import "github.com/c360/signalctl/errors"

// ControlMode is the operating strategy of an intersection's signal timing.
// The two-digit wire codes are fixed by the standard.
type ControlMode string

// Control mode vocabulary. The first four are the special modes: they carry
// no plan and trigger an emergency control effect.
const (
	ModeCancel         ControlMode = "00" // revert to local autonomous control
	ModeLightOff       ControlMode = "11"
	ModeAllRed         ControlMode = "12"
	ModeAllYellowFlash ControlMode = "13"

	ModeLocalFixed     ControlMode = "21" // local fixed-cycle plan
	ModeVehActuated    ControlMode = "22"
	ModeAdaptive       ControlMode = "23"
	ModeManual         ControlMode = "31"
	ModeStageLock      ControlMode = "32"
	ModePlanLock       ControlMode = "33"
	ModeCoordinated    ControlMode = "41"
	ModeAreaAdaptive   ControlMode = "51"
)

// IsSpecial reports whether m is one of the four special modes that forbid a
// plan number.
func (m ControlMode) IsSpecial() bool {
	switch m {
	case ModeCancel, ModeLightOff, ModeAllRed, ModeAllYellowFlash:
		return true
	}
	return false
}

// Valid reports whether m is part of the control mode vocabulary.
func (m ControlMode) Valid() bool {
	switch m {
	case ModeCancel, ModeLightOff, ModeAllRed, ModeAllYellowFlash,
		ModeLocalFixed, ModeVehActuated, ModeAdaptive, ModeManual,
		ModeStageLock, ModePlanLock, ModeCoordinated, ModeAreaAdaptive:
		return true
	}
	return false
}

// FlowType classifies the traffic movement a flow lock applies to.
type FlowType int

// Flow type vocabulary.
const (
	FlowVehicle    FlowType = 1
	FlowPedestrian FlowType = 2
	FlowNonMotor   FlowType = 3
)

// Valid reports whether f is part of the flow type vocabulary.
func (f FlowType) Valid() bool {
	return f >= FlowVehicle && f <= FlowNonMotor
}

// LockType determines how a locked flow direction is served.
type LockType int

// Lock type vocabulary.
const (
	LockCurrentPlan LockType = 1 // keep serving within the running plan
	LockSingleEntry LockType = 2 // dedicated stage for the entrance
	LockSignalGroup LockType = 3 // lock the matching signal group green
)

// Valid reports whether l is part of the lock type vocabulary.
func (l LockType) Valid() bool {
	return l >= LockCurrentPlan && l <= LockSignalGroup
}

// Direction is an approach direction code, clockwise from north.
type Direction int

// Direction codes 1..8: N, NE, E, SE, S, SW, W, NW.
const (
	DirNorth Direction = iota + 1
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
)

// Valid reports whether d is a well-formed direction code.
func (d Direction) Valid() bool { return d >= DirNorth && d <= DirNorthWest }

// CheckDirection returns a field-named validation error unless d is valid.
func CheckDirection(field string, d Direction) error {
	if !d.Valid() {
		return errors.Validation(field, "direction code must be 1..8, got %d", int(d))
	}
	return nil
}

// InterventionType classifies a transient stage intervention.
type InterventionType int

// Stage intervention vocabulary.
const (
	InterventionExtend    InterventionType = 1 // lengthen the running stage
	InterventionShorten   InterventionType = 2 // cut the running stage short
	InterventionNextStage InterventionType = 3 // force transition to the next stage
)

// Valid reports whether t is part of the intervention vocabulary.
func (t InterventionType) Valid() bool {
	return t >= InterventionExtend && t <= InterventionNextStage
}

// LaneMovement is a permitted movement of a (variable) lane.
type LaneMovement string

// Lane movement vocabulary.
const (
	MovementLeft     LaneMovement = "L"
	MovementStraight LaneMovement = "S"
	MovementRight    LaneMovement = "R"
	MovementUTurn    LaneMovement = "U"
)
