// Package fileutil holds filesystem helpers shared by the rename passes.
package fileutil
