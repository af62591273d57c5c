package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleMappingIsTotal(t *testing.T) {
	m := VehicleMapping()
	require.Equal(t, 21, m.From().Len())
	require.Equal(t, NumVehicleClasses, m.To().Len())

	for _, c := range m.From().Classes {
		target := m.Target(c.Name)
		if target == Drop {
			continue
		}
		assert.GreaterOrEqual(t, target, 0, c.Name)
		assert.Less(t, target, NumVehicleClasses, c.Name)
	}
}

func TestVehicleMappingRemap(t *testing.T) {
	m := VehicleMapping()

	tests := []struct {
		name   string
		oldIdx int
		want   int
		wantOK bool
	}{
		{name: "ambulance", oldIdx: 0, want: 0, wantOK: true},
		{name: "army vehicle", oldIdx: 1, want: 4, wantOK: true},
		{name: "bicycle is dropped", oldIdx: 3, want: Drop, wantOK: false},
		{name: "bus", oldIdx: 4, want: 1, wantOK: true},
		{name: "car", oldIdx: 5, want: 2, wantOK: true},
		{name: "motorbike", oldIdx: 10, want: 3, wantOK: true},
		{name: "three wheelers", oldIdx: 17, want: 2, wantOK: true},
		{name: "truck", oldIdx: 18, want: 4, wantOK: true},
		{name: "wheelbarrow is dropped", oldIdx: 20, want: Drop, wantOK: false},
		{name: "negative index", oldIdx: -1, want: Drop, wantOK: false},
		{name: "index past end", oldIdx: 21, want: Drop, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Remap(tt.oldIdx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVehicleMappingTargetsPerClass(t *testing.T) {
	m := VehicleMapping()

	perTarget := map[int]int{}
	for _, c := range m.From().Classes {
		perTarget[m.Target(c.Name)]++
	}

	assert.Equal(t, 1, perTarget[0], "Ambulance")
	assert.Equal(t, 2, perTarget[1], "Bus")
	assert.Equal(t, 11, perTarget[2], "Car")
	assert.Equal(t, 2, perTarget[3], "Motorcycle")
	assert.Equal(t, 3, perTarget[4], "Truck")
	assert.Equal(t, 2, perTarget[Drop], "dropped")
}

func TestNewClassMappingValidation(t *testing.T) {
	from := RoadVehicleClasses()
	to := VehicleClasses()

	t.Run("unknown source class", func(t *testing.T) {
		table := copyTable(vehicleTable)
		table["hovercraft"] = 2
		_, err := NewClassMapping(from, to, table)
		assert.ErrorContains(t, err, "hovercraft")
	})

	t.Run("target out of range", func(t *testing.T) {
		table := copyTable(vehicleTable)
		table["car"] = 5
		_, err := NewClassMapping(from, to, table)
		assert.ErrorContains(t, err, "outside")
	})

	t.Run("missing source class", func(t *testing.T) {
		table := copyTable(vehicleTable)
		delete(table, "taxi")
		_, err := NewClassMapping(from, to, table)
		assert.ErrorContains(t, err, "taxi")
	})
}

func TestClassMappingUnknownNameIsDropped(t *testing.T) {
	assert.Equal(t, Drop, VehicleMapping().Target("spaceship"))
}

func TestClassMappingOwnsItsTable(t *testing.T) {
	table := copyTable(vehicleTable)
	m, err := NewClassMapping(RoadVehicleClasses(), VehicleClasses(), table)
	require.NoError(t, err)

	table["car"] = Drop
	assert.Equal(t, 2, m.Target("car"))
}

func copyTable(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
