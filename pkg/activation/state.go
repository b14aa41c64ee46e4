package activation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// stateFile is the JSON document persisted after every transition.
type stateFile struct {
	Active  string `json:"active"`
	Preview string `json:"preview,omitempty"`
}

// StateStore persists activation state to a single JSON file so the
// committed/previewing selection survives a full process restart. Writes
// are atomic via temp-file-then-rename.
type StateStore struct {
	path string
}

// NewStateStore returns a store writing to dir/activation.json. The
// directory is created on the first save.
func NewStateStore(dir string) *StateStore {
	return &StateStore{path: filepath.Join(dir, "activation.json")}
}

// Load reads the persisted state. A missing file is not an error: it
// returns a zero state and ok=false so the caller can fall back to the
// default committed theme.
func (s *StateStore) Load() (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("activation: read state: %w", err)
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return State{}, false, fmt.Errorf("activation: decode state: %w", err)
	}

	st := State{Active: f.Active, Preview: f.Preview}
	if f.Preview != "" {
		st.Phase = PhasePreviewing
	}
	return st, true, nil
}

// Save persists the state atomically.
func (s *StateStore) Save(st State) error {
	f := stateFile{Active: st.Active}
	if st.Phase == PhasePreviewing {
		f.Preview = st.Preview
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("activation: encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("activation: create state dir: %w", err)
	}
	if err := atomicWrite(s.path, data, dir); err != nil {
		return fmt.Errorf("activation: write state: %w", err)
	}
	return nil
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
