// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one export file.
type ConversionStatus string

const (
	// ConversionSkipped means the output file already existed and --force
	// was not given.
	ConversionSkipped ConversionStatus = "skipped"
	ConversionDone    ConversionStatus = "converted"
	ConversionFailed  ConversionStatus = "failed"
)
