// Package gomkore implements the build graph that drives the libkml recipe.
// A [Project] holds goals ([Goal]) that are reached by running actions
// ([Action]). Each action delegates the actual work to an [Operation], e.g.
// fetching sources, running CMake or resolving the link order of the packaged
// libraries. The [Builder] walks the graph premises first and only runs the
// actions of goals that are outdated.
//
// This package uses idiomatic Go error handling. The root package kmlpkg adds
// an editing layer that recovers from panics to keep recipe definitions short.
package gomkore
