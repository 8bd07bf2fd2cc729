// Package report turns plan records into user-visible output: an immediate
// console line per action and a plain-text run log written into the
// processed root directory.
//
// Log lines are flushed as records arrive, so an interrupted run leaves a
// log that reflects exactly the actions taken up to that point. Write
// failures on the log never abort the run; they are surfaced once at the
// end.
package report
