package contract

import (
	"encoding/json"
	"fmt"
	"os"
)

// Param is one typed constructor or function parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is one ABI entry.
type Function struct {
	Name   string  `json:"name"`
	Inputs []Param `json:"inputs"`
}

// Compiler identifies the compiler that produced the artifact.
type Compiler struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Artifact is a compiled contract in the CashScript artifact JSON layout.
// It is immutable once loaded.
type Artifact struct {
	ContractName      string     `json:"contractName"`
	ConstructorInputs []Param    `json:"constructorInputs"`
	ABI               []Function `json:"abi"`
	Bytecode          string     `json:"bytecode"` // ASM
	Source            string     `json:"source,omitempty"`
	Compiler          Compiler   `json:"compiler"`
	UpdatedAt         string     `json:"updatedAt,omitempty"`
}

// ParseArtifact decodes and validates artifact JSON.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArtifact reads and parses an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: read artifact: %w", err)
	}
	return ParseArtifact(data)
}

// Validate checks the fields a binding needs.
func (a *Artifact) Validate() error {
	if a.ContractName == "" {
		return fmt.Errorf("%w: missing contractName", ErrInvalidArtifact)
	}
	if a.Bytecode == "" {
		return fmt.Errorf("%w: %s has no bytecode", ErrInvalidArtifact, a.ContractName)
	}
	if len(a.ABI) == 0 {
		return fmt.Errorf("%w: %s has no functions", ErrInvalidArtifact, a.ContractName)
	}
	seen := make(map[string]bool, len(a.ABI))
	for _, fn := range a.ABI {
		if fn.Name == "" {
			return fmt.Errorf("%w: %s has an unnamed function", ErrInvalidArtifact, a.ContractName)
		}
		if seen[fn.Name] {
			return fmt.Errorf("%w: %s declares %s twice", ErrInvalidArtifact, a.ContractName, fn.Name)
		}
		seen[fn.Name] = true
	}
	if _, err := Assemble(a.Bytecode); err != nil {
		return err
	}
	return nil
}

// Function returns the ABI entry for name and its index.
func (a *Artifact) Function(name string) (*Function, int, bool) {
	for i := range a.ABI {
		if a.ABI[i].Name == name {
			return &a.ABI[i], i, true
		}
	}
	return nil, -1, false
}
