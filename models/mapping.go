package models

import (
	"github.com/pkg/errors"
)

// Drop marks a source class whose objects are removed instead of remapped.
const Drop = -1

// ClassMapping is an immutable many-to-one table from the classes of one set
// to the indices of another. Targets are either a valid index in the target
// set or Drop.
type ClassMapping struct {
	from  *OutputClassSet
	to    *OutputClassSet
	table map[string]int
}

// NewClassMapping validates table against both sets and returns the mapping.
// Every source class must appear in the table.
func NewClassMapping(from, to *OutputClassSet, table map[string]int) (*ClassMapping, error) {
	from.BuildNameIndexMap()
	to.BuildNameIndexMap()
	own := make(map[string]int, len(table))
	for name, target := range table {
		if _, ok := from.nameToIdx[name]; !ok {
			return nil, errors.Errorf("mapping source %q is not a %s class", name, from.Style)
		}
		if target != Drop && (target < 0 || target >= to.Len()) {
			return nil, errors.Errorf("mapping target %d for %q is outside %s [0, %d)", target, name, to.Style, to.Len())
		}
		own[name] = target
	}
	for _, c := range from.Classes {
		if _, ok := own[c.Name]; !ok {
			return nil, errors.Errorf("%s class %q has no mapping", from.Style, c.Name)
		}
	}
	return &ClassMapping{from: from, to: to, table: own}, nil
}

// From returns the source class set.
func (m *ClassMapping) From() *OutputClassSet { return m.from }

// To returns the target class set.
func (m *ClassMapping) To() *OutputClassSet { return m.to }

// Target returns the target index for a source class name. Unknown names map to Drop.
func (m *ClassMapping) Target(name string) int {
	target, ok := m.table[name]
	if !ok {
		return Drop
	}
	return target
}

// Remap translates a source index into a target index.
// ok is false when the index is out of range or the class is dropped.
func (m *ClassMapping) Remap(idx int) (target int, ok bool) {
	name, found := m.from.Name(idx)
	if !found {
		return Drop, false
	}
	target = m.Target(name)
	if target == Drop {
		return Drop, false
	}
	return target, true
}

// vehicleTable collapses the road vehicle taxonomy into the 5 training classes.
var vehicleTable = map[string]int{
	"ambulance": 0,

	"bus":     1,
	"minibus": 1,

	"car":                  2,
	"suv":                  2,
	"taxi":                 2,
	"policecar":            2,
	"van":                  2,
	"minivan":              2,
	"pickup":               2,
	"auto rickshaw":        2,
	"rickshaw":             2,
	"three wheelers -CNG-": 2,
	"human hauler":         2,

	"motorbike": 3,
	"scooter":   3,

	"truck":        4,
	"garbagevan":   4,
	"army vehicle": 4,

	"bicycle":     Drop,
	"wheelbarrow": Drop,
}

// VehicleMapping returns the road vehicle (21) to vehicle (5) mapping.
func VehicleMapping() *ClassMapping {
	m, err := NewClassMapping(RoadVehicleClasses(), VehicleClasses(), vehicleTable)
	if err != nil {
		// The table is a compile-time constant.
		panic(err)
	}
	return m
}
