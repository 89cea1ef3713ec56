// Package kmlpkg is a build recipe that packages the libkml C++ library for
// binary distribution. The recipe is a project of goals and actions: each
// stage of the package build (source, build, package, package info) is an
// operation that reaches a stamp file goal. A stage only runs when its
// goal is older than one of its premises.
//
//	conandata.yml ─┐
//	patches/*    ──┴─ SourceOp ─ BuildOp ─ PackageOp ─ PackageInfoOp
//
// The stages drive CMake through [CmdOp] and report their progress to a
// [gomkore.Tracer]. The package info stage orders the built libraries for
// linking with package [git.fractalqb.de/fractalqb/kmlpkg/linkorder] and
// registers the package in the local registry.
//
// Use [Edit] to extend a recipe's project with additional goals, e.g.
//
//	err := kmlpkg.Edit(prj, func(prj kmlpkg.ProjectEd) {
//		prj.Goal(mkfs.File("package/README")).
//			By(mkfs.Copy{}, prj.Goal(mkfs.File("source_subfolder/README")))
//	})
package kmlpkg
