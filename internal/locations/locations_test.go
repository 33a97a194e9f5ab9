package locations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSetRejectsEmpty(t *testing.T) {
	_, err := NewSet(nil)
	require.Error(t, err)
}

func TestNewSetRejectsDuplicateNames(t *testing.T) {
	_, err := NewSet([]Location{
		{Name: "Sudirman", Latitude: -6.2, Longitude: 106.8},
		{Name: "Sudirman", Latitude: -6.2, Longitude: 106.8},
	})
	require.Error(t, err)
}

func TestNewSetRejectsOutOfRangeCoordinates(t *testing.T) {
	_, err := NewSet([]Location{{Name: "A", Latitude: 95, Longitude: 0}})
	require.Error(t, err)

	_, err = NewSet([]Location{{Name: "A", Latitude: 0, Longitude: 200}})
	require.Error(t, err)
}

func TestNewSetPreservesOrder(t *testing.T) {
	set, err := NewSet([]Location{
		{Name: "Sudirman", Latitude: -6.2214, Longitude: 106.8236},
		{Name: "Thamrin", Latitude: -6.1944, Longitude: 106.8229},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Sudirman", "Thamrin"}, set.Names())
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.yaml")
	contents := `
locations:
  - name: Sudirman
    latitude: -6.2214
    longitude: 106.8236
  - name: Thamrin
    latitude: -6.1944
    longitude: 106.8229
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.All(), 2)
	require.Equal(t, "Sudirman", set.All()[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
