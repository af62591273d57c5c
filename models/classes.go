package models

import "fmt"

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index used in label files and model outputs.
	Index int
	// The human-readable label.
	Name string
}

// OutputClassSet ties a taxonomy to its full list of labels.
type OutputClassSet struct {
	// Class set identifier.
	Style ModelFamily
	// Classes in index order.
	Classes []OutputClass
	// nameToIdx for fast lookup by name
	nameToIdx map[string]int
}

// BuildNameIndexMap builds or rebuilds the name->index map.
func (s *OutputClassSet) BuildNameIndexMap() {
	s.nameToIdx = make(map[string]int, len(s.Classes))
	for _, c := range s.Classes {
		s.nameToIdx[c.Name] = c.Index
	}
}

// Len returns the number of classes in the set.
func (s *OutputClassSet) Len() int {
	return len(s.Classes)
}

// Names returns the class names in index order.
func (s *OutputClassSet) Names() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}

// Name returns the class name at idx, or false if idx is out of range.
func (s *OutputClassSet) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.Classes) {
		return "", false
	}
	return s.Classes[idx].Name, true
}

// ClassManager holds all registered class sets.
type ClassManager struct {
	sets map[ModelFamily]*OutputClassSet
}

// NewClassManager initializes and registers the given sets.
func NewClassManager(allSets ...*OutputClassSet) *ClassManager {
	mgr := &ClassManager{sets: make(map[ModelFamily]*OutputClassSet)}
	for _, set := range allSets {
		set.BuildNameIndexMap()
		mgr.sets[set.Style] = set
	}
	return mgr
}

// Set returns the registered set for style.
func (m *ClassManager) Set(style ModelFamily) (*OutputClassSet, error) {
	set, ok := m.sets[style]
	if !ok {
		return nil, fmt.Errorf("style %q not registered", style)
	}
	return set, nil
}

// GetName returns the class name for a given style and index.
func (m *ClassManager) GetName(style ModelFamily, idx int) (string, error) {
	set, err := m.Set(style)
	if err != nil {
		return "", err
	}
	name, ok := set.Name(idx)
	if !ok {
		return "", fmt.Errorf("index %d out of range for style %q", idx, style)
	}
	return name, nil
}

// GetIndex returns the class index for a given style and name.
func (m *ClassManager) GetIndex(style ModelFamily, name string) (int, error) {
	set, err := m.Set(style)
	if err != nil {
		return -1, err
	}
	idx, ok := set.nameToIdx[name]
	if !ok {
		return -1, fmt.Errorf("name %q not found in style %q", name, style)
	}
	return idx, nil
}

// roadVehicleNames is the source dataset taxonomy, in label-file index order.
var roadVehicleNames = []string{
	"ambulance", "army vehicle", "auto rickshaw", "bicycle", "bus", "car", "garbagevan",
	"human hauler", "minibus", "minivan", "motorbike", "pickup", "policecar", "rickshaw",
	"scooter", "suv", "taxi", "three wheelers -CNG-", "truck", "van", "wheelbarrow",
}

// vehicleNames is the 5-class training taxonomy.
var vehicleNames = []string{"Ambulance", "Bus", "Car", "Motorcycle", "Truck"}

func newClassSet(style ModelFamily, names []string) *OutputClassSet {
	classes := make([]OutputClass, len(names))
	for i, n := range names {
		classes[i] = OutputClass{Index: i, Name: n}
	}
	set := &OutputClassSet{Style: style, Classes: classes}
	set.BuildNameIndexMap()
	return set
}

// RoadVehicleClasses returns the 21-class source taxonomy.
// Each call returns a fresh copy.
func RoadVehicleClasses() *OutputClassSet {
	return newClassSet(ModelFamilyRoadVehicle, roadVehicleNames)
}

// VehicleClasses returns the 5-class target taxonomy (Ambulance, Bus, Car, Motorcycle, Truck).
func VehicleClasses() *OutputClassSet {
	return newClassSet(ModelFamilyVehicle5, vehicleNames)
}

// NumVehicleClasses is the size of the target taxonomy.
const NumVehicleClasses = 5

// DefaultClassManager registers both vehicle taxonomies.
func DefaultClassManager() *ClassManager {
	return NewClassManager(RoadVehicleClasses(), VehicleClasses())
}
