// Package models - Definitions for class taxonomies and the mapping between them.
package models

// ModelFamily identifies the label taxonomy a dataset or model uses.
type ModelFamily string

const (
	// ModelFamilyRoadVehicle is the 21-class road vehicle taxonomy of the source dataset.
	ModelFamilyRoadVehicle ModelFamily = "road-vehicle-21"
	// ModelFamilyVehicle5 is the 5-class vehicle taxonomy the detector is trained on.
	ModelFamilyVehicle5 ModelFamily = "vehicle-5"
)
