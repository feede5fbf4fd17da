package geometry

import "errors"

var (
	// ErrGeometryStillInvalid is returned when Repair could not produce a valid geometry.
	ErrGeometryStillInvalid = errors.New("geometry still invalid after repair")

	// ErrUnsupportedGeometry is returned for geometries that are not polygonal.
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")

	// ErrUndecodable is returned when a geometry string is in none of the accepted encodings.
	ErrUndecodable = errors.New("undecodable geometry")

	// ErrSimplifierClosed is returned by a StreamSimplifier whose request stream is closed.
	ErrSimplifierClosed = errors.New("simplifier stream closed")
)
