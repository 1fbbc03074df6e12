// Package export orchestrates one synchronization run: change detection
// against the watermark of the previous run, snapshot building through
// ordered mapper pipelines, the per-unit lookup/create/update-check state
// machine, and the step drivers that expand channel scope into units of
// work. Remote access goes through the narrow client interfaces declared
// here so the orchestration can be tested without a live platform.
package export
