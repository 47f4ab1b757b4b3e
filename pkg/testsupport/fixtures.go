package testsupport

import "os"

// LoadFixture reads a fixture or golden file relative to the test package.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}
