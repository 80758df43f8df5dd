// Package cargo reads just enough Cargo project metadata to locate build
// output: manifest identity and the resolved target directory.
package cargo
