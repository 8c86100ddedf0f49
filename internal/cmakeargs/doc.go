// Package cmakeargs folds the command-line flags shared by most CMake builds
// into configure and build argument lists. The split follows how single-config
// and multi-config generators differ: the build type becomes a configure
// define for the former and a --config build argument for the latter.
package cmakeargs
