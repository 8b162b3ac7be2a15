// Package manifest detects which styled-component library a project uses
// by reading the nearest package.json.
package manifest

// ManifestName is the file looked up in each ancestor directory.
const ManifestName = "package.json"

// Library describes a supported styling library and how its `styled`
// helper is imported.
type Library struct {
	// PackageName is the dependency name declared in package.json.
	PackageName string `json:"package_name"`
	// ImportPath overrides the module imported from; empty means PackageName.
	ImportPath string `json:"import_path,omitempty"`
	// DefaultImport is true when `styled` is the module's default export.
	DefaultImport bool `json:"default_import"`
}

// Module returns the module path used in the import statement.
func (l Library) Module() string {
	if l.ImportPath != "" {
		return l.ImportPath
	}
	return l.PackageName
}

// SupportedLibraries is the fixed lookup table, in priority order.
var SupportedLibraries = []Library{
	{PackageName: "styled-components", DefaultImport: true},
	{PackageName: "@emotion/styled", DefaultImport: true},
	{PackageName: "linaria", ImportPath: "linaria/react"},
}

// dependencySections are the package.json objects searched for libraries.
var dependencySections = []string{"dependencies", "devDependencies", "peerDependencies"}
