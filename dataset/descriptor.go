package dataset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/nvr-ai/vehdet/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Descriptor is the dataset YAML consumed by the detector training tool.
type Descriptor struct {
	// Path is the dataset root. Split paths are relative to it.
	Path  string `yaml:"path"`
	Train string `yaml:"train"`
	Val   string `yaml:"val"`
	// Test aliases Val: the dataset has no separate test split.
	Test  string     `yaml:"test"`
	Names ClassNames `yaml:"names,flow"`
	// NC defaults to len(Names) when absent.
	NC int `yaml:"nc"`
}

// ClassNames lists class names by index. It decodes both the list form and
// the index-keyed map form ({0: person, 1: bicycle}).
type ClassNames []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *ClassNames) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	case yaml.MappingNode:
		byIndex := map[int]string{}
		if err := value.Decode(&byIndex); err != nil {
			return err
		}
		indices := make([]int, 0, len(byIndex))
		for idx := range byIndex {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		names := make([]string, len(indices))
		for i, idx := range indices {
			if idx != i {
				return errors.Errorf("class index %d is missing from names", i)
			}
			names[i] = byIndex[idx]
		}
		*n = names
		return nil
	default:
		return errors.Errorf("line %d: names must be a list or an index map", value.Line)
	}
}

// NewDescriptor describes a converted dataset rooted at root with the given class names.
func NewDescriptor(root string, names []string) *Descriptor {
	return &Descriptor{
		Path:  filepath.ToSlash(filepath.Clean(root)),
		Train: "train/images",
		Val:   "valid/images",
		Test:  "valid/images",
		Names: names,
		NC:    len(names),
	}
}

// WriteDescriptor writes the descriptor of a 5-class vehicle dataset rooted at
// root to path, overwriting any existing file.
func WriteDescriptor(root, path string) (*Descriptor, error) {
	d := NewDescriptor(root, models.VehicleClasses().Names())
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "encoding dataset descriptor")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "writing dataset descriptor %s", path)
	}
	return d, nil
}

// LoadDescriptor reads a dataset descriptor and checks that its class count,
// when given, agrees with its name list.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dataset descriptor %s", path)
	}
	d := &Descriptor{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, errors.Wrapf(err, "parsing dataset descriptor %s", path)
	}
	if len(d.Names) == 0 {
		return nil, errors.Errorf("dataset descriptor %s has no class names", path)
	}
	if d.NC == 0 {
		d.NC = len(d.Names)
	}
	if d.NC != len(d.Names) {
		return nil, errors.Errorf("dataset descriptor %s: nc is %d but %d names are listed", path, d.NC, len(d.Names))
	}
	return d, nil
}
